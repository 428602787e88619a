package service

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"soulengine/internal/domain"
)

var (
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorExists     = errors.New("operator already exists")
	ErrInvalidCredentials = errors.New("invalid operator credentials")
)

// OperatorStore is the persistence seam AuthService depends on. Soul
// Engine's operator set is small and provisioned out of band, so the
// shipped implementation is an in-memory map rather than a database
// table.
type OperatorStore interface {
	Save(op domain.Operator) error
	FindByName(name string) (domain.Operator, error)
}

type memoryOperatorStore struct {
	mu   sync.RWMutex
	byID map[string]domain.Operator
}

func NewMemoryOperatorStore() OperatorStore {
	return &memoryOperatorStore{byID: make(map[string]domain.Operator)}
}

func (s *memoryOperatorStore) Save(op domain.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[op.Name] = op
	return nil
}

func (s *memoryOperatorStore) FindByName(name string) (domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.byID[name]
	if !ok {
		return domain.Operator{}, ErrOperatorNotFound
	}
	return op, nil
}

// AuthService authenticates operators via a bcrypt-hashed shared
// secret and issues JWT pairs on success. There is no end-user signup
// flow in Soul Engine — every caller is an operator provisioned by an
// administrator, via Provision or the startup bootstrap secret.
type AuthService struct {
	store OperatorStore
	jwt   *JWTService
}

func NewAuthService(store OperatorStore, jwt *JWTService) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

// Provision creates or overwrites the named operator's secret.
func (a *AuthService) Provision(name, secret string) error {
	name = strings.TrimSpace(name)
	if name == "" || secret == "" {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.store.Save(domain.Operator{ID: name, Name: name, SecretHash: string(hash)})
}

// Login verifies name/secret and returns a fresh token pair.
func (a *AuthService) Login(name, secret string) (TokenPair, error) {
	op, err := a.store.FindByName(strings.TrimSpace(name))
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(op.SecretHash), []byte(secret)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return a.jwt.GeneratePair(op)
}
