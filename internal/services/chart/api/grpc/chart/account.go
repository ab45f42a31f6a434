package chart

import (
	"context"
	"errors"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/account"
)

// AccountService exposes ziwei.chart.v1.AccountService.
type AccountService struct {
	accounts *account.Service
}

// NewAccountService creates an account API over the account service.
func NewAccountService(accounts *account.Service) *AccountService {
	return &AccountService{accounts: accounts}
}

var _ AccountServer = (*AccountService)(nil)

// Register creates an account and returns a session.
func (s *AccountService) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := stringField(in, "locale")
	if s == nil || s.accounts == nil {
		return nil, apperrors.HandleError(errors.New("account service is not configured"), locale)
	}
	session, err := s.accounts.Register(ctx, stringField(in, "username"), rawField(in, "password"))
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	out, err := sessionToStruct(session)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

// Login checks credentials and returns a session.
func (s *AccountService) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := stringField(in, "locale")
	if s == nil || s.accounts == nil {
		return nil, apperrors.HandleError(errors.New("account service is not configured"), locale)
	}
	session, err := s.accounts.Login(ctx, stringField(in, "username"), rawField(in, "password"))
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	out, err := sessionToStruct(session)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return out, nil
}

// rawField reads a string without trimming; passwords keep their spaces.
func rawField(in *structpb.Struct, key string) string {
	if in == nil {
		return ""
	}
	return in.GetFields()[key].GetStringValue()
}

func sessionToStruct(session account.Session) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"user": map[string]any{
			"id":         session.User.ID,
			"username":   session.User.Username,
			"created_at": session.User.CreatedAt.UTC().Format(time.RFC3339),
		},
		"token":      session.Token,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
