package service

import (
	"errors"
	"testing"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	user := &model.User{
		Name:     "Li Wei",
		Email:    "liwei@example.com",
		Password: "s3cret",
		Grade:    "10",
		Section:  "A",
	}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Errorf("role = %s, want student default", user.Role)
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plaintext")
	}

	token, got, err := svc.Login("liwei@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if got.ID != user.ID {
		t.Errorf("login user id = %d, want %d", got.ID, user.ID)
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthFixture(t)

	// 学生缺年级
	err := svc.Register(&model.User{Name: "x", Email: "a@b.c", Password: "p", Section: "A"})
	if !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("missing grade err = %v, want ErrInvalidInput", err)
	}

	// 教师不需要年级班级
	teacher := &model.User{Name: "t", Email: "t@b.c", Password: "p", Role: model.Teacher}
	if err := svc.Register(teacher); err != nil {
		t.Fatalf("teacher register: %v", err)
	}

	// 邮箱重复
	dup := &model.User{Name: "t2", Email: "t@b.c", Password: "p", Role: model.Teacher}
	if err := svc.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("duplicate email err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	teacher := &model.User{Name: "t", Email: "t@b.c", Password: "right", Role: model.Teacher}
	if err := svc.Register(teacher); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login("t@b.c", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@b.c", "right"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}
