/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/provisioning"
	"finance-dashboard-go/internal/transfer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	dashboard Dashboard
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	DateOfBirth string `json:"date_of_birth"`
	Ssn         string `json:"ssn"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type linkBankRequest struct {
	PublicToken string `json:"public_token"`
}

type transferRequest struct {
	SenderBankId string          `json:"sender_bank_id"`
	ShareableId  string          `json:"shareable_id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	Email        string          `json:"email"`
}

type profileResponse struct {
	UserId           string `json:"user_id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Address1         string `json:"address1"`
	City             string `json:"city"`
	State            string `json:"state"`
	PostalCode       string `json:"postal_code"`
	DateOfBirth      string `json:"date_of_birth"`
	DwollaCustomerId string `json:"dwolla_customer_id"`
}

type sessionResponse struct {
	Profile   profileResponse `json:"profile"`
	SessionId string          `json:"session_id"`
	Secret    string          `json:"session_secret,omitempty"`
}

// bankResponse leaves out the aggregator access token.
type bankResponse struct {
	Id          string    `json:"id"`
	AccountId   string    `json:"account_id"`
	ItemId      string    `json:"item_id"`
	ShareableId string    `json:"shareable_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type accountErrorResponse struct {
	AccountId string `json:"account_id"`
	Error     string `json:"error"`
}

type linkResponse struct {
	ItemId  string                 `json:"item_id"`
	Created []bankResponse         `json:"created"`
	Skipped []string               `json:"skipped"`
	Errored []accountErrorResponse `json:"errored"`
}

type transferResponse struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	SenderBankId   string          `json:"sender_bank_id"`
	ReceiverBankId string          `json:"receiver_bank_id"`
	TransferUrl    string          `json:"transfer_url"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.HealthCheck(r.Context()); err != nil {
		zap.L().Warn("Health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.dashboard.SignUp(r.Context(), provisioning.SignUpParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address1:    req.Address1,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		DateOfBirth: req.DateOfBirth,
		Ssn:         req.Ssn,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(result))
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.dashboard.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(result))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.dashboard.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.dashboard.CreateLinkToken(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, linkTokenResponse{LinkToken: token})
}

func (h *Handlers) GetBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.dashboard.GetBanks(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]bankResponse, 0, len(banks))
	for _, b := range banks {
		resp = append(resp, toBankResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// LinkBank answers 201 when at least one account was created, 200 when every
// account was already linked and 422 when nothing could be linked.
func (h *Handlers) LinkBank(w http.ResponseWriter, r *http.Request) {
	var req linkBankRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.dashboard.LinkBank(r.Context(), chi.URLParam(r, "userId"), req.PublicToken)
	var linkErr *banklink.LinkError
	switch {
	case errors.As(err, &linkErr) && result != nil:
		writeJSON(w, http.StatusUnprocessableEntity, toLinkResponse(result))
	case err != nil:
		writeDomainError(w, r, err)
	case len(result.Created) > 0:
		writeJSON(w, http.StatusCreated, toLinkResponse(result))
	default:
		writeJSON(w, http.StatusOK, toLinkResponse(result))
	}
}

func (h *Handlers) GetAccounts(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.GetAccounts(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	detail, err := h.dashboard.GetAccount(r.Context(), chi.URLParam(r, "bankId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.dashboard.CreateTransfer(r.Context(), transfer.Params{
		SenderBankId: req.SenderBankId,
		ShareableId:  req.ShareableId,
		Amount:       req.Amount,
		Note:         req.Note,
		Email:        req.Email,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, transferResponse{
		Id:             t.Id,
		Name:           t.Name,
		Amount:         t.Amount,
		SenderBankId:   t.SenderBankId,
		ReceiverBankId: t.ReceiverBankId,
		TransferUrl:    t.TransferUrl,
		CreatedAt:      t.CreatedAt,
	})
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   *apperrors.ValidationError
		notFound     *apperrors.NotFoundError
		external     *apperrors.ExternalError
		inconsistent *apperrors.InconsistentStateError
	)

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &inconsistent):
		// funds moved; report acceptance with the reference to reconcile
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":    "unrecorded",
			"reference": inconsistent.Reference,
		})
	case errors.As(err, &external):
		status := http.StatusBadGateway
		switch {
		case external.Transient:
			status = http.StatusServiceUnavailable
		case external.StatusCode == http.StatusUnauthorized:
			status = http.StatusUnauthorized
		case external.StatusCode == http.StatusConflict:
			status = http.StatusConflict
		}
		writeError(w, status, external.Service+" "+external.Operation+" failed")
	default:
		zap.L().Error("Request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("Failed to encode response", zap.Error(err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		UserId:           p.UserId,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Address1:         p.Address1,
		City:             p.City,
		State:            p.State,
		PostalCode:       p.PostalCode,
		DateOfBirth:      p.DateOfBirth,
		DwollaCustomerId: p.DwollaCustomerId,
	}
}

func toSessionResponse(result *provisioning.Result) sessionResponse {
	resp := sessionResponse{Profile: toProfileResponse(result.Profile)}
	if result.Session != nil {
		resp.SessionId = result.Session.Id
		resp.Secret = result.Session.Secret
	}
	return resp
}

func toBankResponse(b models.Bank) bankResponse {
	return bankResponse{
		Id:          b.Id,
		AccountId:   b.AccountId,
		ItemId:      b.ItemId,
		ShareableId: b.ShareableId,
		CreatedAt:   b.CreatedAt,
	}
}

func toLinkResponse(result *banklink.Result) linkResponse {
	resp := linkResponse{
		ItemId:  result.ItemId,
		Created: make([]bankResponse, 0, len(result.Created)),
		Skipped: append([]string{}, result.Skipped...),
		Errored: make([]accountErrorResponse, 0, len(result.Errored)),
	}
	for _, b := range result.Created {
		resp.Created = append(resp.Created, toBankResponse(b))
	}
	for _, e := range result.Errored {
		resp.Errored = append(resp.Errored, accountErrorResponse{AccountId: e.AccountId, Error: e.Err.Error()})
	}
	return resp
}
