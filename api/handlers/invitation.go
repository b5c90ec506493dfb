package handlers

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
	templates "github.com/bkeeper-app/bkeeper-api/templates/html"
)

// Errors returned by the invitation code operations
var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrInvalidMaxUses  = errors.New("maxUses must be at least 1")
	ErrInvalidExpiry   = errors.New("expiresInDays cannot be negative")
	ErrEmptyCode       = errors.New("invitation code is required")
	ErrInvalidCode     = errors.New("invalid invitation code")
	ErrCodeExpired     = errors.New("invitation code has expired")
	ErrMaxUsesReached  = errors.New("invitation code has reached its maximum number of uses")
	ErrAlreadyMember   = errors.New("user is already a member of this apiary")
	ErrCodeGeneration  = errors.New("could not generate a unique invitation code")
	ErrMemberInsert    = errors.New("could not add member to apiary")
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 8
	maxCodeAttempts = 10
)

// Invitation exported for testing purposes
type Invitation struct {
	DB  databases.InvitationCodeDatabase
	MDB databases.ApiaryMemberDatabase
	ADB databases.ApiaryDatabase
}

type createInvitationRequest struct {
	MaxUses       int `json:"maxUses"`
	ExpiresInDays int `json:"expiresInDays"`
}

type redeemInvitationRequest struct {
	Code string `json:"code"`
}

type redeemInvitationResponse struct {
	Success bool          `json:"success"`
	Apiary  models.Apiary `json:"apiary"`
}

// generateInvitationCode draws each of the 8 characters uniformly from
// [A-Z0-9]. Collisions are possible; the caller checks the store.
func generateInvitationCode() (string, error) {
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// createInvitationCode issues a new code for the apiary on behalf of userID.
// The uniqueness pre-check retries up to maxCodeAttempts times; the unique
// index on the code field is what guarantees uniqueness under races.
func (i Invitation) createInvitationCode(ctx context.Context, userID, apiaryID string, maxUses, expiresInDays int) (*models.InvitationCode, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if maxUses < 1 {
		return nil, ErrInvalidMaxUses
	}
	if expiresInDays < 0 {
		return nil, ErrInvalidExpiry
	}

	var code string
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate, err := generateInvitationCode()
		if err != nil {
			return nil, err
		}
		count, err := i.DB.CountDocuments(ctx, bson.M{"code": candidate})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, ErrCodeGeneration
	}

	now := time.Now()
	var expiresAt *time.Time
	if expiresInDays > 0 {
		t := now.Add(time.Duration(expiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	invitation := models.InvitationCode{
		ID:          primitive.NewObjectID(),
		Code:        code,
		ApiaryID:    apiaryID,
		CreatedBy:   userID,
		ExpiresAt:   expiresAt,
		MaxUses:     maxUses,
		CurrentUses: 0,
		IsActive:    true,
		CreatedAt:   now,
	}

	if _, err := i.DB.InsertOne(ctx, invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// useInvitationCode redeems a code for userID. The checks run in order and
// the first failure short-circuits with no mutation; once the membership is
// inserted the redemption is committed and a failed use-counter update only
// logs a warning.
func (i Invitation) useInvitationCode(ctx context.Context, userID, code string) (*models.Apiary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCode
	}

	invitation, err := i.DB.FindOne(ctx, bson.M{"code": code, "isActive": true})
	if err != nil {
		return nil, ErrInvalidCode
	}

	if invitation.ExpiresAt != nil && invitation.ExpiresAt.Before(time.Now()) {
		return nil, ErrCodeExpired
	}

	if invitation.CurrentUses >= invitation.MaxUses {
		return nil, ErrMaxUsesReached
	}

	if _, err := i.MDB.FindOne(ctx, bson.M{"apiaryId": invitation.ApiaryID, "userId": userID}); err == nil {
		return nil, ErrAlreadyMember
	}

	member := models.ApiaryMember{
		ID:       primitive.NewObjectID(),
		ApiaryID: invitation.ApiaryID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if _, err := i.MDB.InsertOne(ctx, member); err != nil {
		return nil, ErrMemberInsert
	}

	// The membership is the user-visible effect; a failed counter update is
	// retried once and then only logged so it never unwinds the join.
	update := bson.M{"$inc": bson.M{"currentUses": 1}}
	if err := i.DB.UpdateOne(ctx, bson.M{"_id": invitation.ID}, update); err != nil {
		if err := i.DB.UpdateOne(ctx, bson.M{"_id": invitation.ID}, update); err != nil {
			zap.S().Warnw("failed to increment invitation code use counter",
				"codeId", invitation.ID.Hex(),
				"error", err)
		}
	}

	aID, err := primitive.ObjectIDFromHex(invitation.ApiaryID)
	if err != nil {
		return nil, err
	}
	apiary, err := i.ADB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		return nil, err
	}
	return apiary, nil
}

// getInvitationCodes returns the active codes for an apiary, newest first
func (i Invitation) getInvitationCodes(ctx context.Context, apiaryID string) ([]models.InvitationCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	codes, err := i.DB.Find(ctx, bson.M{"apiaryId": apiaryID, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []models.InvitationCode{}
	}
	return codes, nil
}

// deactivateInvitationCode flips isActive off. Deactivating an already
// inactive code succeeds silently; memberships are never cascaded.
func (i Invitation) deactivateInvitationCode(ctx context.Context, codeID string) error {
	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		return err
	}
	return i.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": bson.M{"isActive": false}})
}

// CreateInvitationCodeHandler creates a new invitation code for an apiary
func (i Invitation) CreateInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	req := createInvitationRequest{MaxUses: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
			return
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invitation, err := i.createInvitationCode(ctx, api.UserIDFromContext(r.Context()), apiaryID, req.MaxUses, req.ExpiresInDays)
	if err != nil {
		config.ErrorStatus("failed to create invitation code", invitationErrorStatusCode(err), w, err)
		return
	}

	b, err := json.Marshal(invitation)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UseInvitationCodeHandler redeems an invitation code and joins the caller
// to the associated apiary
func (i Invitation) UseInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req redeemInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	userID := api.UserIDFromContext(r.Context())
	apiary, err := i.useInvitationCode(ctx, userID, req.Code)
	if err != nil {
		config.ErrorStatus("failed to redeem invitation code", invitationErrorStatusCode(err), w, err)
		return
	}

	go SendNotificationToUser(apiary.OwnerID, "member_joined", map[string]string{
		"apiaryId": apiary.ID.Hex(),
		"userId":   userID,
	})

	b, err := json.Marshal(redeemInvitationResponse{Success: true, Apiary: *apiary})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// InvitationCodesHandler returns all active invitation codes for an apiary,
// most recent first
func (i Invitation) InvitationCodesHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	codes, err := i.getInvitationCodes(ctx, apiaryID)
	if err != nil {
		config.ErrorStatus("failed to get invitation codes", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(codes)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeactivateInvitationCodeHandler deactivates an invitation code. The code is
// kept for audit; existing memberships are unaffected.
func (i Invitation) DeactivateInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["codeId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.deactivateInvitationCode(ctx, codeID); err != nil {
		config.ErrorStatus("failed to deactivate invitation code", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success": true}`))
}

type sendInvitationRequest struct {
	Email string `json:"email"`
}

// SendInvitationCodeHandler emails an invitation code to the given address
func (i Invitation) SendInvitationCodeHandler(w http.ResponseWriter, r *http.Request) {
	codeID := mux.Vars(r)["codeId"]

	var req sendInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Email == "" {
		config.ErrorStatus("email is required", http.StatusBadRequest, w, nil)
		return
	}

	cID, err := primitive.ObjectIDFromHex(codeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	invitation, err := i.DB.FindOne(ctx, bson.M{"_id": cID, "isActive": true})
	if err != nil {
		config.ErrorStatus("failed to find invitation code", http.StatusNotFound, w, err)
		return
	}

	aID, err := primitive.ObjectIDFromHex(invitation.ApiaryID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}
	apiary, err := i.ADB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to find apiary", http.StatusNotFound, w, err)
		return
	}

	subject := "You have been invited to " + apiary.Name
	body := "You have been invited to join the apiary \"" + apiary.Name + "\".\n\n" +
		"Open the app and enter this invitation code to join:\n\n" + invitation.Code
	from := mail.NewEmail("B.Keeper", "noreply@bkeeper.app")
	to := mail.NewEmail("", req.Email)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(message); err != nil {
		config.ErrorStatus("failed to send invitation email", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"sent": true}`))
}

// invitationErrorStatusCode maps invitation service errors to HTTP statuses
func invitationErrorStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidMaxUses), errors.Is(err, ErrInvalidExpiry), errors.Is(err, ErrEmptyCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCode):
		return http.StatusNotFound
	case errors.Is(err, ErrCodeExpired), errors.Is(err, ErrMaxUsesReached):
		return http.StatusGone
	case errors.Is(err, ErrAlreadyMember):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
