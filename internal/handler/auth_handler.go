/*
Package handler provides HTTP handler functions for the mock authentication
surface.

Both operations answer 200 for every credential pair; the only rejection is
a malformed request body. Plan tiers in the response communicate which
branch of the mock resolved the login.
*/
package handler

import (
	"net/http"

	"agrow/internal/pkg/logx"
	"agrow/internal/pkg/req"
	"agrow/internal/pkg/resp"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin resolves credentials through the three-tier mock and always
// answers 200 with a session.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.BadRequest(w, err.Error())
			return
		}

		session := deps.Auth.Login(input.Email, input.Password)

		logx.Info("login resolved",
			"email", input.Email,
			"plan", string(session.User.Plan),
		)

		resp.JSON(w, http.StatusOK, session)
	}
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// HandleRegister appends a new mock user and answers 200 with a free-plan
// session. Duplicate emails are permitted by design.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.BadRequest(w, err.Error())
			return
		}

		session := deps.Auth.Register(input.FirstName, input.LastName, input.Email, input.Password)

		logx.Info("user registered",
			"email", input.Email,
			"user_id", session.User.ID,
		)

		resp.JSON(w, http.StatusOK, session)
	}
}
