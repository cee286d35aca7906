package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tips-admin-api/internal/domain"
)

func TestStruct_VerifyOTPRequest(t *testing.T) {
	ok := domain.VerifyOTPRequest{From: "forgot", Type: "email", Value: "a@b.com", Code: "012345"}
	assert.NoError(t, Struct(ok))

	bad := domain.VerifyOTPRequest{From: "elsewhere", Type: "email", Value: "a@b.com", Code: "12"}
	err := Struct(bad)
	assert.ErrorContains(t, err, "field 'from' failed 'oneof'")
	assert.ErrorContains(t, err, "field 'code' failed 'len'")
}
