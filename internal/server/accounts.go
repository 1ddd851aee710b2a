package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// userView resolves the role name of u for display.
func (s *Server) userView(r *http.Request, u *models.User) (userView, error) {
	role, err := s.svc.Users.RoleOf(r.Context(), u)
	if err != nil {
		return userView{}, err
	}
	return newUserView(u, role), nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.svc.Auth.Signup(r.Context(), services.SignupInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.userView(r, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, user, err := s.svc.Auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.userView(r, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, tokenView{Token: token, User: view})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Users.Me(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.userView(r, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.List(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		view, err := s.userView(r, u)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, view)
	}
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Users.Get(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.userView(r, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.svc.Users.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.UserUpdate(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.userView(r, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, view)
}

func (s *Server) handleToggleUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	active, err := s.svc.Users.ToggleActive(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, activeView{ID: id, Active: active})
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.svc.Roles.List(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(roles, newRoleView))
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := s.svc.Roles.Get(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newRoleView(role))
}

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	role, err := s.svc.Roles.Create(r.Context(), IdentityFrom(r.Context()), services.RoleInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newRoleView(role))
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	role, err := s.svc.Roles.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.RoleInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newRoleView(role))
}

func (s *Server) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Roles.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
