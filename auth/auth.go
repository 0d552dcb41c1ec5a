// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package auth is the config-backed user store. Users and their jukebox
// role come from the [users] table of the configuration file.
package auth

import (
	"crypto/md5"
	"fmt"
)

type User struct {
	Name     string
	Password string
	// Jukebox is the role gating control of the local audio device.
	Jukebox bool
}

type Store struct {
	users map[string]User
}

func NewStore(users []User) *Store {
	m := make(map[string]User, len(users))
	for _, u := range users {
		m[u.Name] = u
	}
	return &Store{users: m}
}

// Lookup resolves a username. An unknown user is an error, not a
// not-authorized result.
func (s *Store) Lookup(name string) (User, error) {
	u, ok := s.users[name]
	if !ok {
		return User{}, fmt.Errorf("auth: unknown user %q", name)
	}
	return u, nil
}

func (s *Store) IsAuthorized(name string) (bool, error) {
	u, err := s.Lookup(name)
	if err != nil {
		return false, err
	}
	return u.Jukebox, nil
}

// Authenticate checks a plaintext password.
func (s *Store) Authenticate(name, password string) bool {
	u, ok := s.users[name]
	return ok && password != "" && u.Password == password
}

// AuthenticateToken checks a Subsonic token pair:
// token = md5(password + salt).
func (s *Store) AuthenticateToken(name, token, salt string) bool {
	u, ok := s.users[name]
	if !ok || salt == "" {
		return false
	}
	want := fmt.Sprintf("%x", md5.Sum([]byte(u.Password+salt)))
	return token == want
}
