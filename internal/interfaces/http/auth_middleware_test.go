package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "stock-ledger-test"
	testExpMin    = 60
)

// tokenForRole header Authorization completo con un JWT del rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// writersApp ruta con la misma política que crear/eliminar transacciones.
func writersApp() *fiber.App {
	app := fiber.New()
	app.Post("/write",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(pkgjwt.RoleAdmin, pkgjwt.RoleManager),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestRequireRole_PoliticaDeEscritura(t *testing.T) {
	expired, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           testUserID,
		Role:             pkgjwt.RoleAdmin,
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"admin", tokenForRole(t, pkgjwt.RoleAdmin), http.StatusOK, ""},
		{"manager", tokenForRole(t, pkgjwt.RoleManager), http.StatusOK, ""},
		{"operator", tokenForRole(t, pkgjwt.RoleOperator), http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", tokenForRole(t, "auditor"), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", "Bearer " + noRole, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	app := writersApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			if tc.code != "" {
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleManager))
	resp, err := writersApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, pkgjwt.RoleManager, body["role"])
}
