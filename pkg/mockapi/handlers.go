package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("mock-api: failed to encode response: %v", err)
	}
}

// writeRESTError mirrors the PostgREST error body.
func writeRESTError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"message": err.Error()})
}

// writeAuthError mirrors the GoTrue error body.
func writeAuthError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": err.Error()})
}

func userJSON(acc *Account) map[string]interface{} {
	return map[string]interface{}{
		"id":             acc.ID,
		"email":          acc.Email,
		"business_id":    acc.BusinessID,
		"full_name":      acc.FullName,
		"role":           "authenticated",
		"email_verified": true,
	}
}

func bearer(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}

	return token
}

// HandleToken serves the password and refresh_token grants.
func HandleToken(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email        string `json:"email"`
			Password     string `json:"password"`
			RefreshToken string `json:"refresh_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid_request", err)
			return
		}

		var (
			acc           *Account
			access, renew string
			err           error
		)

		grantType := r.URL.Query().Get("grant_type")

		switch grantType {
		case "password":
			acc, access, renew, err = state.SignIn(body.Email, body.Password)
		case "refresh_token":
			acc, access, renew, err = state.Refresh(body.RefreshToken)
		default:
			writeAuthError(w, http.StatusBadRequest, "unsupported_grant_type", errors.New("unsupported grant type "+grantType))
			return
		}

		if err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid_grant", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":  access,
			"refresh_token": renew,
			"token_type":    "bearer",
			"expires_in":    int(TokenTTL.Seconds()),
			"expires_at":    time.Now().Add(TokenTTL).Unix(),
			"user":          userJSON(acc),
		})
	}
}

// HandleUser returns the signed-in user.
func HandleUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userJSON(accountFrom(r)))
	}
}

// HandleLogout revokes the caller's tokens.
func HandleLogout(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.Revoke(bearer(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// scope restricts a query to the rows of the caller's business.
func scope(table string, acc *Account) Filter {
	if table == "businesses" {
		return Filter{Column: "id", Op: "eq", Value: acc.BusinessID}
	}

	return Filter{Column: "business_id", Op: "eq", Value: acc.BusinessID}
}

// HandleSelect serves GET /rest/v1/{table}.
func HandleSelect(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]
		query := r.URL.Query()

		filters, err := ParseFilters(query)
		if err != nil {
			writeRESTError(w, http.StatusBadRequest, err)
			return
		}
		filters = append(filters, scope(table, accountFrom(r)))

		rows, err := state.Select(table, filters, query.Get("order"))
		if err != nil {
			writeRESTError(w, http.StatusNotFound, err)
			return
		}

		writeJSON(w, http.StatusOK, project(rows, query.Get("select")))
	}
}

// HandleInsert serves POST /rest/v1/{table} with one object or an array.
func HandleInsert(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]
		acc := accountFrom(r)

		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeRESTError(w, http.StatusBadRequest, err)
			return
		}

		var rows []Row
		if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
			if err := json.Unmarshal(raw, &rows); err != nil {
				writeRESTError(w, http.StatusBadRequest, err)
				return
			}
		} else {
			var row Row
			if err := json.Unmarshal(raw, &row); err != nil {
				writeRESTError(w, http.StatusBadRequest, err)
				return
			}
			rows = []Row{row}
		}

		for _, row := range rows {
			row["business_id"] = acc.BusinessID
		}

		created, err := state.Insert(table, rows)
		if err != nil {
			writeRESTError(w, http.StatusNotFound, err)
			return
		}

		writeMutation(w, r, http.StatusCreated, created)
	}
}

// HandleUpdate serves PATCH /rest/v1/{table}?column=op.value.
func HandleUpdate(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]

		filters, ok := mutationFilters(w, r, table)
		if !ok {
			return
		}

		var patch Row
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeRESTError(w, http.StatusBadRequest, err)
			return
		}
		delete(patch, "business_id")

		updated, err := state.Update(table, filters, patch)
		if err != nil {
			writeRESTError(w, http.StatusNotFound, err)
			return
		}

		writeMutation(w, r, http.StatusOK, updated)
	}
}

// HandleDelete serves DELETE /rest/v1/{table}?column=op.value.
func HandleDelete(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]

		filters, ok := mutationFilters(w, r, table)
		if !ok {
			return
		}

		removed, err := state.Delete(table, filters)
		if err != nil {
			writeRESTError(w, http.StatusNotFound, err)
			return
		}

		writeMutation(w, r, http.StatusOK, removed)
	}
}

// mutationFilters refuses unfiltered updates and deletes like PostgREST's
// safe-update mode.
func mutationFilters(w http.ResponseWriter, r *http.Request, table string) ([]Filter, bool) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		writeRESTError(w, http.StatusBadRequest, err)
		return nil, false
	}

	if len(filters) == 0 {
		writeRESTError(w, http.StatusBadRequest, errors.New("a filter is required"))
		return nil, false
	}

	return append(filters, scope(table, accountFrom(r))), true
}

func writeMutation(w http.ResponseWriter, r *http.Request, status int, rows []Row) {
	if !strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if rows == nil {
		rows = []Row{}
	}
	writeJSON(w, status, rows)
}
