// Package dealer implements dealer authentication and registration
// against the hosted dealers app.
package dealer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

var (
	ErrNotFound        = errors.New("Dealer not found")
	ErrPendingApproval = errors.New("Your account is pending approval. Please wait for activation.")
	ErrInactive        = errors.New("Your account has been deactivated. Please contact Zagu back office.")
	ErrBadPassword     = errors.New("Invalid password")
	ErrPasswordExpired = errors.New("Password expired. Please contact your administrator.")
	ErrCodeTaken       = errors.New("Dealer code already registered")
	ErrEmailTaken      = errors.New("Email already registered")
	ErrMissingFields   = errors.New("Email, dealer code, password, dealer name, and contact person are required")
	ErrShortPassword   = errors.New("Password must be at least 6 characters")
	ErrMissingLogin    = errors.New("Code and password required")
	ErrDealerInactive  = errors.New("Dealer not active")
	ErrWrongPassword   = errors.New("Current password incorrect")
)

const (
	passwordExpiryDays = 90
	reviewAction       = "Submit for Review"
	reviewAssignee     = "Administrator"
)

// RecordStore is the slice of the record store the service needs.
type RecordStore interface {
	QueryDealers(ctx context.Context, query string) ([]kintone.Record, error)
	CreateDealer(ctx context.Context, rec kintone.Record) (*kintone.CreateResult, error)
	UpdateDealer(ctx context.Context, id string, rec kintone.Record) (*kintone.UpdateResult, error)
	AdvanceStatus(ctx context.Context, id, action, assignee string) error
}

type Service struct {
	store RecordStore
	now   func() time.Time
}

func NewService(store RecordStore) *Service {
	return &Service{store: store, now: time.Now}
}

// checkPassword accepts a bcrypt hash or, for records predating the
// hashing change, a clear-text value.
func checkPassword(stored, given string) bool {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil {
		return true
	}
	return stored != "" && stored == given
}

func hashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login authenticates a dealer by code. Only dealers in the Active
// workflow state may log in; pending and deactivated accounts get
// specific messages.
func (s *Service) Login(ctx context.Context, code, password string) (*Dealer, error) {
	if code == "" || password == "" {
		return nil, ErrMissingLogin
	}
	recs, err := s.store.QueryDealers(ctx, fmt.Sprintf("dealer_code = %q limit 1", code))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	rec := recs[0]

	switch status := workflowStatus(rec); status {
	case "Active":
	case "Pending Review", "Pending Approval":
		return nil, ErrPendingApproval
	case "Inactive":
		return nil, ErrInactive
	default:
		return nil, ErrNotFound
	}

	if !checkPassword(rec.String("login_password"), password) {
		return nil, ErrBadPassword
	}

	if expiry := rec.String("password_expiry"); expiry != "" {
		d, err := time.Parse("2006-01-02", expiry)
		if err == nil && d.Before(s.now()) {
			return nil, ErrPasswordExpired
		}
	}

	return FromRecord(rec), nil
}

type RegisterRequest struct {
	Email         string `json:"email"`
	DealerCode    string `json:"dealerCode"`
	Password      string `json:"password"`
	DealerName    string `json:"dealerName"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Region        string `json:"region"`
}

// RegisterResult reports a created registration. Warning is set when
// the record exists but the review transition failed; the registration
// still counts as submitted.
type RegisterResult struct {
	ID      string `json:"id"`
	Warning string `json:"pmWarning,omitempty"`
}

// Register creates a dealer record in the New state and submits it for
// back-office review.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if req.Email == "" || req.DealerCode == "" || req.Password == "" || req.DealerName == "" || req.ContactPerson == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 6 {
		return nil, ErrShortPassword
	}

	existing, err := s.store.QueryDealers(ctx,
		fmt.Sprintf("dealer_code = %q or email = %q limit 1", req.DealerCode, req.Email))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if existing[0].String("dealer_code") == req.DealerCode {
			return nil, ErrCodeTaken
		}
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	region := req.Region
	if region == "" {
		region = "NCR"
	}
	expiry := s.now().AddDate(0, 0, passwordExpiryDays).Format("2006-01-02")

	created, err := s.store.CreateDealer(ctx, kintone.Record{
		"dealer_code":     kintone.Str(req.DealerCode),
		"dealer_name":     kintone.Str(req.DealerName),
		"email":           kintone.Str(req.Email),
		"contact_person":  kintone.Str(req.ContactPerson),
		"phone":           kintone.Str(req.Phone),
		"region":          kintone.Str(region),
		"login_password":  kintone.Str(hash),
		"password_expiry": kintone.Str(expiry),
		"credit_terms":    kintone.Str("None"),
		"mfa_enabled":     kintone.Str("No"),
	})
	if err != nil {
		return nil, err
	}

	res := &RegisterResult{ID: created.ID}
	// Advance New -> Pending Review. The record exists either way, so a
	// failed transition degrades to a warning rather than an error.
	if err := s.store.AdvanceStatus(ctx, created.ID, reviewAction, reviewAssignee); err != nil {
		res.Warning = err.Error()
	}
	return res, nil
}

// ChangePassword rotates an active dealer's password and pushes the
// expiry out by another 90 days. Returns the new expiry date.
func (s *Service) ChangePassword(ctx context.Context, code, current, next string) (string, error) {
	if code == "" || current == "" || next == "" {
		return "", ErrMissingLogin
	}
	if len(next) < 6 {
		return "", ErrShortPassword
	}

	recs, err := s.store.QueryDealers(ctx, fmt.Sprintf("dealer_code = %q limit 1", code))
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", ErrNotFound
	}
	rec := recs[0]
	if workflowStatus(rec) != "Active" {
		return "", ErrDealerInactive
	}
	if !checkPassword(rec.String("login_password"), current) {
		return "", ErrWrongPassword
	}

	hash, err := hashPassword(next)
	if err != nil {
		return "", err
	}
	expiry := s.now().AddDate(0, 0, passwordExpiryDays).Format("2006-01-02")
	_, err = s.store.UpdateDealer(ctx, rec.String("$id"), kintone.Record{
		"login_password":  kintone.Str(hash),
		"password_expiry": kintone.Str(expiry),
	})
	if err != nil {
		return "", err
	}
	return expiry, nil
}

// KintoneStore adapts the platform client to the Store port.
type KintoneStore struct {
	Client *kintone.Client
}

func (s *KintoneStore) QueryDealers(ctx context.Context, query string) ([]kintone.Record, error) {
	res, err := s.Client.GetRecords(ctx, kintone.AppDealers, query, "")
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (s *KintoneStore) CreateDealer(ctx context.Context, rec kintone.Record) (*kintone.CreateResult, error) {
	return s.Client.CreateRecord(ctx, kintone.AppDealers, rec)
}

func (s *KintoneStore) UpdateDealer(ctx context.Context, id string, rec kintone.Record) (*kintone.UpdateResult, error) {
	return s.Client.UpdateRecord(ctx, kintone.AppDealers, id, rec)
}

func (s *KintoneStore) AdvanceStatus(ctx context.Context, id, action, assignee string) error {
	_, err := s.Client.UpdateStatus(ctx, kintone.AppDealers, id, action, assignee)
	return err
}
