package api

import (
	"net/http"

	"meeting-scheduler/apperr"
	"meeting-scheduler/user"
)

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}

	created, err := a.users.CreateUser(r.Context(), user.User{Username: req.Username, Email: req.Email}, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user ID")
	if err != nil {
		a.Error(w, r, err)
		return
	}

	u, err := a.users.GetUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Error(w, r, apperr.NotFound("user not found: %s", userID))
		return
	}

	a.Response(w, http.StatusOK, u)
}

type searchUsersResponse struct {
	Users []user.User `json:"users"`
}

func (a *API) searchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.SearchUsers(r.Context(), r.URL.Query().Get("q"), a.searchLimit)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, searchUsersResponse{Users: users})
}
