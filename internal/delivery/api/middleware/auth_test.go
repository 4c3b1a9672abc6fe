package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"
	mockSvc "marketplace/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		header    string
		setup     func(m *mockSvc.MockTokenService)
		wantErr   error
		wantRole  entity.Role
		wantReach bool
	}{
		{
			name:    "missing header",
			wantErr: domainerrors.ErrUnauthorized,
		},
		{
			name:    "not a bearer token",
			header:  "Basic abc",
			wantErr: domainerrors.ErrUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer broken",
			setup: func(m *mockSvc.MockTokenService) {
				m.EXPECT().ValidateToken("broken").Return(nil, errors.New("bad signature"))
			},
			wantErr: domainerrors.ErrUnauthorized,
		},
		{
			name:   "unknown role",
			header: "Bearer odd",
			setup: func(m *mockSvc.MockTokenService) {
				m.EXPECT().ValidateToken("odd").Return(&service.Claims{UserID: userID, Role: "admin"}, nil)
			},
			wantErr: domainerrors.ErrUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(m *mockSvc.MockTokenService) {
				m.EXPECT().ValidateToken("good").Return(&service.Claims{UserID: userID, Email: "s@example.com", Role: "seller"}, nil)
			},
			wantRole:  entity.RoleSeller,
			wantReach: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mockSvc.NewMockTokenService(t)
			if tt.setup != nil {
				tt.setup(tokenSvc)
			}
			m := NewAuthMiddleware(tokenSvc, discard())
			c, _ := newAuthContext(tt.header)

			reached := false
			err := m.Authenticate(func(c echo.Context) error {
				reached = true
				principal := deliverycontext.GetPrincipal(c)
				assert.Equal(t, userID, principal.ID)
				assert.Equal(t, tt.wantRole, principal.Role)
				assert.Equal(t, principal, deliverycontext.PrincipalFromContext(c.Request().Context()))

				return nil
			})(c)

			assert.Equal(t, tt.wantReach, reached)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t), discard())
	c, _ := newAuthContext("")

	err := m.OptionalAuth(func(c echo.Context) error {
		assert.False(t, deliverycontext.GetPrincipal(c).IsAuthenticated())

		return nil
	})(c)
	require.NoError(t, err)
}
