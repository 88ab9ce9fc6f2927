package user

import (
	"context"
	"errors"
	"testing"
	"time"

	userRepo "hotelbooking/database/repository/user"
	"hotelbooking/models"
	"hotelbooking/utils"

	"go.uber.org/zap"
)

func newService() *DefaultUserService {
	return &DefaultUserService{
		Repo:   userRepo.NewMemoryUserRepo(),
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
		Logger: zap.NewNop(),
	}
}

func strPtr(s string) *string { return &s }

func TestRegisterIgnoresRequestedRole(t *testing.T) {
	svc := newService()
	resp, err := svc.Register(context.Background(), models.UserRegistration{
		Email: "Guest@Hotel.test", Password: "guest-pass-1", FirstName: "Guest", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.User.Role != models.RoleGuest || resp.User.Email != "guest@hotel.test" || resp.Token == "" {
		t.Fatalf("unexpected registration %+v", resp.User)
	}
}

func TestCreateUser(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, models.UserRegistration{
		Email: "desk@hotel.test", Password: "desk-pass-1", FirstName: "Desk", City: " Lisbon ", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsAdmin() || u.City != "Lisbon" {
		t.Fatalf("unexpected user %+v", u)
	}

	plain, err := svc.CreateUser(ctx, models.UserRegistration{Email: "plain@hotel.test", Password: "plain-pass-1", FirstName: "Plain"})
	if err != nil || plain.Role != models.RoleGuest {
		t.Fatalf("default role: %+v %v", plain, err)
	}
	if _, err := svc.CreateUser(ctx, models.UserRegistration{Email: "x@hotel.test", Password: "x-pass-123", FirstName: "X", Role: "owner"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unknown role: %v", err)
	}
	if _, err := svc.CreateUser(ctx, models.UserRegistration{Email: "DESK@hotel.test", Password: "desk-pass-1", FirstName: "Again"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "desk@hotel.test", "desk-pass-1"); err != nil {
		t.Fatalf("created user cannot sign in: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	resp, err := svc.Register(ctx, models.UserRegistration{Email: "g@hotel.test", Password: "guest-pass-1", FirstName: "Guest", Phone: "111"})
	if err != nil {
		t.Fatal(err)
	}
	id := resp.User.ID

	u, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{LastName: strPtr(" Jones "), Country: strPtr("PT")})
	if err != nil {
		t.Fatal(err)
	}
	if u.LastName != "Jones" || u.Country != "PT" || u.Phone != "111" || u.FirstName != "Guest" {
		t.Fatalf("unexpected profile %+v", u)
	}
	stored, err := svc.GetUserByID(ctx, id)
	if err != nil || stored.FullName() != "Guest Jones" {
		t.Fatalf("profile not stored: %+v %v", stored, err)
	}

	if _, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{}); !errors.Is(err, ErrEmptyProfile) {
		t.Fatalf("empty update: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{FirstName: strPtr("  ")}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("blank first name: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "missing", models.ProfileUpdate{City: strPtr("Porto")}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user: %v", err)
	}
}
