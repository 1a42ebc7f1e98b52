package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecopoints/internal/points"
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]*services.AuthClaims

func (f fakeVerifier) Validate(ctx context.Context, token string) (*services.AuthClaims, error) {
	claims, ok := f[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return claims, nil
}

func newAuthnServer(verifier fakeVerifier, reached *bool) *echo.Echo {
	e := echo.New()
	e.Use(Authn(verifier))
	e.GET("/whoami", func(c echo.Context) error {
		*reached = true
		claims, err := ResolveAuthClaims(c.Request().Context())
		if err != nil {
			return c.String(http.StatusForbidden, "anonymous")
		}
		return c.String(http.StatusOK, claims.StudentID)
	})
	return e
}

func TestAuthn(t *testing.T) {
	verifier := fakeVerifier{"good": {StudentID: "s1"}}

	tests := []struct {
		name        string
		header      string
		wantReached bool
		wantCode    int
		wantBody    string
	}{
		{name: "no header", wantReached: true, wantCode: http.StatusForbidden, wantBody: "anonymous"},
		{name: "not bearer", header: "Basic abc", wantReached: true, wantCode: http.StatusForbidden, wantBody: "anonymous"},
		{name: "empty bearer", header: "Bearer ", wantReached: true, wantCode: http.StatusForbidden, wantBody: "anonymous"},
		{name: "valid token", header: "Bearer good", wantReached: true, wantCode: http.StatusOK, wantBody: "s1"},
		{name: "invalid token", header: "Bearer forged", wantReached: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			e := newAuthnServer(verifier, &reached)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantReached, reached)
			if tt.wantReached {
				assert.Equal(t, tt.wantCode, rec.Code)
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestParamInt64(t *testing.T) {
	e := echo.New()

	for _, tt := range []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "42", want: 42},
		{value: "0", wantErr: true},
		{value: "-3", wantErr: true},
		{value: "abc", wantErr: true},
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tt.value)

		got, err := paramInt64(c, "id")
		if tt.wantErr {
			require.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestProfileLookupError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind errorx.Kind
	}{
		{name: "profile deleted", err: errorx.Wrap(points.ErrNotFound, errorx.NotExist), wantKind: errorx.Authn},
		{name: "store down", err: errorx.Wrap(errors.New("dial tcp: connection refused"), errorx.Service), wantKind: errorx.Service},
		{name: "unwrapped failure", err: errors.New("redis: i/o timeout"), wantKind: errorx.Service},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target *errorx.Error
			require.ErrorAs(t, profileLookupError(tt.err), &target)
			assert.True(t, target.Of(tt.wantKind), target.Code())
		})
	}
}
