package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Keys untuk c.Locals hasil hidrasi klaim token.
const (
	LocUserID   = "user_id"
	LocSchoolID = "school_id"
	LocIsAdmin  = "is_school_admin"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals("jwt_claims", claims)

		// user_id: ambil id/sub/user_id dalam urutan preferensi
		switch {
		case strClaim(claims, "id") != "":
			c.Locals(LocUserID, strClaim(claims, "id"))
		case strClaim(claims, "sub") != "":
			c.Locals(LocUserID, strClaim(claims, "sub"))
		case strClaim(claims, "user_id") != "":
			c.Locals(LocUserID, strClaim(claims, "user_id"))
		}

		// school_id → scope tenant untuk route admin
		if sid := strClaim(claims, "school_id"); sid != "" {
			c.Locals(LocSchoolID, sid)
		}

		if v, ok := claims["is_school_admin"]; ok {
			switch t := v.(type) {
			case bool:
				c.Locals(LocIsAdmin, t)
			case string:
				s := strings.ToLower(strings.TrimSpace(t))
				c.Locals(LocIsAdmin, s == "true" || s == "1" || s == "yes")
			}
		}

		return c.Next()
	}
}

// IsSchoolAdmin menolak request tanpa klaim admin sekolah.
func IsSchoolAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if admin, _ := c.Locals(LocIsAdmin).(bool); !admin {
			return fiber.NewError(fiber.StatusForbidden, "Hanya admin sekolah yang boleh mengakses resource ini")
		}
		return c.Next()
	}
}

// SchoolIDFromLocals mengambil school_id hasil AuthJWT; uuid.Nil kalau absen.
func SchoolIDFromLocals(c *fiber.Ctx) uuid.UUID {
	s, _ := c.Locals(LocSchoolID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
