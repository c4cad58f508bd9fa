package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/clients/advisor"
	"github.com/aliskhannn/techquest/internal/service"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("load: %w", apperr.NotFound("course")), msgNotFound},
		{"invalid state", apperr.InvalidState("add friend", "already friends with %s", "<Ann>"), "⚠️ already friends with &lt;Ann&gt;"},
		{"advice disabled", service.ErrAdvisorDisabled, msgAdviceDisabled},
		{"rate limited", fmt.Errorf("match path: %w", advisor.ErrRateLimited), msgAdviceBusy},
		{"credits", advisor.ErrCreditsExhausted, msgAdviceBusy},
		{"store", apperr.StoreUnavailable("get", errors.New("boom")), msgInternalError},
		{"plain", errors.New("boom"), msgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
