package service

import (
	"context"
	"testing"
	"time"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceSuite struct {
	suite.Suite
	users    *fakeUserStore
	tokens   *fakeTokenStore
	mailer   *fakeMailer
	sessions *fakeSessionPublisher
	audit    *fakeAuditor
	service  *AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	utils.InitJWT("access-test", "refresh-test", 15*time.Minute, time.Hour)

	hash, err := utils.HashPassword("secret1")
	s.Require().NoError(err)
	s.users = newFakeUserStore(models.User{ID: "u-1", Email: "ada@example.com", PasswordHash: hash, Role: models.RoleStaff})
	s.tokens = newFakeTokenStore()
	s.mailer = &fakeMailer{}
	s.sessions = &fakeSessionPublisher{}
	s.audit = &fakeAuditor{}
	s.service = NewAuthService(s.users, s.audit, s.tokens, s.mailer, s.sessions, time.Hour, zap.NewNop())
}

func (s *AuthServiceSuite) TestLogin() {
	resp, err := s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal("u-1", resp.User.ID)
	s.Equal(models.RoleStaff, resp.User.Role)
	s.Contains(s.users.refreshTokens, utils.HashToken(resp.RefreshToken))
	s.Equal([]session.EventType{session.EventSignedIn}, s.sessions.types())

	claims, err := utils.ValidateAccessToken(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal("ada@example.com", claims.Email)
}

func (s *AuthServiceSuite) TestLogin_UpgradesWeakHash() {
	weak, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	s.Require().NoError(err)
	u := s.users.users["u-1"]
	u.PasswordHash = string(weak)
	s.users.users["u-1"] = u

	_, err = s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	upgraded := s.users.users["u-1"].PasswordHash
	s.NotEqual(string(weak), upgraded)
	s.False(utils.NeedsRehash(upgraded))
	s.True(utils.ComparePassword(upgraded, "secret1"))
}

func (s *AuthServiceSuite) TestLogin_WrongPassword() {
	_, err := s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "secret2"})
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Empty(s.sessions.events)
}

func (s *AuthServiceSuite) TestLogin_UnknownEmail() {
	_, err := s.service.Login(context.Background(), validation.LoginForm{Email: "nobody@example.com", Password: "secret1"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLogin_ShortPasswordIsValidationError() {
	_, err := s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "abc12"})
	var fields validation.FieldErrors
	s.ErrorAs(err, &fields)
}

func (s *AuthServiceSuite) TestRegister_CreatesDonorProfile() {
	resp, err := s.service.Register(context.Background(), validation.RegisterForm{
		Name:            "Grace Hopper",
		Email:           "grace@example.com",
		Password:        "cobol1",
		ConfirmPassword: "cobol1",
	})
	s.Require().NoError(err)

	s.Equal(models.RoleDonor, resp.User.Role)
	s.Equal("Grace Hopper", resp.User.FullName)
	s.Require().Len(s.users.donors, 1)
	s.Equal(resp.User.ID, s.users.donors[0].ID)
	s.Equal(models.EligibilityPending, s.users.donors[0].EligibilityStatus)
}

func (s *AuthServiceSuite) TestRegister_EmailTaken() {
	_, err := s.service.Register(context.Background(), validation.RegisterForm{
		Name:            "Ada",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *AuthServiceSuite) TestRefreshAccessToken() {
	resp, err := s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	access, err := s.service.RefreshAccessToken(context.Background(), resp.RefreshToken)
	s.Require().NoError(err)
	s.NotEmpty(access)

	_, err = s.service.RefreshAccessToken(context.Background(), "bogus")
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceSuite) TestLogout_RevokesAndBlacklists() {
	resp, err := s.service.Login(context.Background(), validation.LoginForm{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	current := &session.Session{UserID: "u-1", TokenID: "jti-1", ExpiresAt: time.Now().Add(10 * time.Minute)}
	s.Require().NoError(s.service.Logout(context.Background(), resp.RefreshToken, current))

	s.Contains(s.tokens.blacklisted, "jti-1")
	_, err = s.service.RefreshAccessToken(context.Background(), resp.RefreshToken)
	s.ErrorIs(err, ErrInvalidRefreshToken)
	s.Equal([]session.EventType{session.EventSignedIn, session.EventSignedOut}, s.sessions.types())
}

func (s *AuthServiceSuite) TestResetPassword_UnknownEmailIsSilent() {
	err := s.service.ResetPassword(context.Background(), validation.ResetForm{Email: "nobody@example.com"})
	s.NoError(err)
	s.Empty(s.mailer.sent)
}

func (s *AuthServiceSuite) TestResetAndConfirm() {
	ctx := context.Background()
	s.Require().NoError(s.service.ResetPassword(ctx, validation.ResetForm{Email: "ada@example.com"}))
	s.Require().Len(s.mailer.sent, 1)
	token := s.mailer.sent[0].token
	s.Equal([]session.EventType{session.EventPasswordRecovery}, s.sessions.types())

	err := s.service.ConfirmReset(ctx, validation.ConfirmResetForm{Token: token, Password: "newpass1", ConfirmPassword: "newpass1"})
	s.Require().NoError(err)
	s.Equal([]string{"u-1"}, s.users.revokedAll)

	_, err = s.service.Login(ctx, validation.LoginForm{Email: "ada@example.com", Password: "newpass1"})
	s.NoError(err)

	err = s.service.ConfirmReset(ctx, validation.ConfirmResetForm{Token: token, Password: "again12", ConfirmPassword: "again12"})
	s.ErrorIs(err, session.ErrResetTokenInvalid)
}

func (s *AuthServiceSuite) TestUpdatePassword() {
	ctx := context.Background()
	err := s.service.UpdatePassword(ctx, "u-1", validation.UpdatePasswordForm{Password: "fresh12", ConfirmPassword: "fresh12"})
	s.Require().NoError(err)
	s.Equal([]session.EventType{session.EventUserUpdated}, s.sessions.types())

	_, err = s.service.Login(ctx, validation.LoginForm{Email: "ada@example.com", Password: "fresh12"})
	s.NoError(err)
}

func (s *AuthServiceSuite) TestGetCurrentUser() {
	user, err := s.service.GetCurrentUser(context.Background(), "u-1")
	s.Require().NoError(err)
	s.Equal("ada@example.com", user.Email)
}
