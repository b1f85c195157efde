package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/pkg/logger"
)

type AuthHandler struct {
	auth          Authenticator
	logger        logger.Logger
	secureCookies bool
}

func NewAuthHandler(auth Authenticator, logger logger.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, secureCookies: secureCookies}
}

// me
//
//	@Summary	Текущий пользователь
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	IdentityResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/me [get]
func (a *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	WriteSuccess(w, http.StatusOK, IdentityResponse{
		UserID:  identity.UserID,
		Email:   identity.Email,
		IsAdmin: identity.IsAdmin,
	})
}

// signOut
//
//	@Summary		Выход
//	@Description	Токен отзывается до конца срока действия, cookie удаляется
//	@Tags			auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Router			/auth/sign-out [post]
func (a *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.SignOut(r.Context(), tokenFrom(r.Context())); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
