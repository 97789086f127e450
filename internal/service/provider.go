package service

import (
	"github.com/kaz2018/agemas/internal/store"
)

type AuthService struct {
	store store.Store
}

type PostService struct {
	store store.Store
}

type AdminService struct {
	store store.Store
}

func NewAuthService(st store.Store) *AuthService {
	return &AuthService{store: st}
}

func NewPostService(st store.Store) *PostService {
	return &PostService{store: st}
}

func NewAdminService(st store.Store) *AdminService {
	return &AdminService{store: st}
}
