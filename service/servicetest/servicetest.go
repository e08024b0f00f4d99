// Package servicetest provides in-memory repositories, a recording mail
// sender and a settable clock for tests of the service and handler layers.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/security/throttle"
	"github.com/ncobase/shopfront/structs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sender records messages. Err, when set, fails every send.
type Sender struct {
	mu   sync.Mutex
	Sent []email.Message
	Err  error
}

// Send implements email.Sender.
func (s *Sender) Send(_ context.Context, msg email.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Sent = append(s.Sent, msg)
	return primitive.NewObjectID().Hex(), nil
}

// Last returns the last recorded message.
func (s *Sender) Last() (email.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return email.Message{}, false
	}
	return s.Sent[len(s.Sent)-1], true
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*structs.User
	// Err, when set, is returned by every call.
	Err error
}

// NewUsers creates an empty user store.
func NewUsers() *Users {
	return &Users{users: make(map[primitive.ObjectID]*structs.User)}
}

var _ repository.UserRepository = (*Users)(nil)

func cloneUser(u *structs.User) *structs.User {
	c := *u
	return &c
}

func (r *Users) lookup(id string) (*structs.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *Users) Create(_ context.Context, user *structs.User) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = cloneUser(user)
	return user, nil
}

func (r *Users) FindByID(_ context.Context, id string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *Users) FindByEmail(_ context.Context, addr string) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == addr {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

// SetStatus changes the account status of a user.
func (r *Users) SetStatus(id string, status structs.UserStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, err := r.lookup(id); err == nil {
		u.Status = status
	}
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	delete(r.users, u.ID)
	return nil
}

func (r *Users) SetVerificationCode(_ context.Context, id string, code structs.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	value, expiry := code.Value, code.ExpiresAt
	u.VerificationCode, u.VerificationCodeExpiry = &value, &expiry
	return nil
}

func (r *Users) consume(id, code string, apply func(*structs.User)) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if u.VerificationCode == nil || *u.VerificationCode != code {
		return nil, repository.ErrNotFound
	}
	apply(u)
	u.VerificationCode, u.VerificationCodeExpiry = nil, nil
	return cloneUser(u), nil
}

func (r *Users) MarkEmailVerified(_ context.Context, id, code string) (*structs.User, error) {
	return r.consume(id, code, func(u *structs.User) { u.EmailVerified = true })
}

func (r *Users) ResetPasswordWithCode(_ context.Context, id, code, hash string) (*structs.User, error) {
	return r.consume(id, code, func(u *structs.User) { u.PasswordHash = hash })
}

func (r *Users) OpenResetWindow(_ context.Context, id, code string, until time.Time) (*structs.User, error) {
	return r.consume(id, code, func(u *structs.User) { u.ResetAllowedUntil = &until })
}

func (r *Users) SetPasswordInResetWindow(_ context.Context, id, hash string, now time.Time) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if u.ResetAllowedUntil == nil || now.After(*u.ResetAllowedUntil) {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.ResetAllowedUntil = nil
	return cloneUser(u), nil
}

func (r *Users) SetPassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (r *Users) SetSession(_ context.Context, id, accessToken, refreshToken string, at time.Time) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	u.AccessToken, u.RefreshToken, u.LastLoginAt = &accessToken, &refreshToken, &at
	return cloneUser(u), nil
}

func (r *Users) RotateAccessToken(_ context.Context, id, accessToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	if u.RefreshToken == nil {
		return repository.ErrNotFound
	}
	u.AccessToken = &accessToken
	return nil
}

func (r *Users) ClearSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	u.AccessToken, u.RefreshToken = nil, nil
	return nil
}

func (r *Users) UpdateProfile(_ context.Context, id string, upd repository.ProfileUpdate) (*structs.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Email != "" {
		for _, other := range r.users {
			if other.ID != u.ID && other.Email == upd.Email {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = upd.Email
		u.EmailVerified = false
		if upd.Code != nil {
			value, expiry := upd.Code.Value, upd.Code.ExpiresAt
			u.VerificationCode, u.VerificationCodeExpiry = &value, &expiry
		}
	}
	return cloneUser(u), nil
}

func (r *Users) Count(_ context.Context, verifiedOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, u := range r.users {
		if !verifiedOnly || u.EmailVerified {
			n++
		}
	}
	return n, nil
}

// Admins is an in-memory repository.AdminRepository.
type Admins struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]*structs.Admin
}

// NewAdmins creates an empty admin store.
func NewAdmins() *Admins {
	return &Admins{admins: make(map[primitive.ObjectID]*structs.Admin)}
}

var _ repository.AdminRepository = (*Admins)(nil)

func cloneAdmin(a *structs.Admin) *structs.Admin {
	c := *a
	return &c
}

func (r *Admins) lookup(id string) (*structs.Admin, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	a, ok := r.admins[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (r *Admins) Create(_ context.Context, admin *structs.Admin) (*structs.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == admin.Email {
			return nil, repository.ErrDuplicate
		}
	}
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	r.admins[admin.ID] = cloneAdmin(admin)
	return admin, nil
}

func (r *Admins) FindByID(_ context.Context, id string) (*structs.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneAdmin(a), nil
}

func (r *Admins) FindByEmail(_ context.Context, addr string) (*structs.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == addr {
			return cloneAdmin(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Admins) TouchLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return err
	}
	a.LastLoginAt = &at
	return nil
}

func (r *Admins) UpdateProfile(_ context.Context, id string, upd structs.UpdateAdminRequest) (*structs.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != "" {
		a.Name = upd.Name
	}
	if upd.Phone != "" {
		a.Phone = upd.Phone
	}
	if upd.Country != "" {
		a.Country = upd.Country
	}
	return cloneAdmin(a), nil
}

// SetActive flips the active flag of an admin.
func (r *Admins) SetActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, err := r.lookup(id); err == nil {
		a.IsActive = active
	}
}

func (r *Admins) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

// MyList is an in-memory repository.MyListRepository.
type MyList struct {
	mu    sync.Mutex
	items []*structs.MyListItem
}

// NewMyList creates an empty wish-list store.
func NewMyList() *MyList {
	return &MyList{}
}

var _ repository.MyListRepository = (*MyList)(nil)

func (r *MyList) Add(_ context.Context, item *structs.MyListItem) (*structs.MyListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			return nil, repository.ErrDuplicate
		}
	}
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	c := *item
	r.items = append(r.items, &c)
	return item, nil
}

func (r *MyList) ListByUser(_ context.Context, userID string) ([]*structs.MyListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	items := make([]*structs.MyListItem, 0)
	for _, it := range r.items {
		if it.UserID == uid {
			c := *it
			items = append(items, &c)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *MyList) DeleteOwned(_ context.Context, userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	iid, err := parseID(itemID)
	if err != nil {
		return err
	}
	for i, it := range r.items {
		if it.ID == iid && it.UserID == uid {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *MyList) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// Limiter is an in-memory throttle.Limiter allowing Max submissions per
// email.
type Limiter struct {
	mu       sync.Mutex
	Max      int
	attempts map[string]int
}

var _ throttle.Limiter = (*Limiter)(nil)

// NewLimiter creates a limiter allowing max submissions.
func NewLimiter(max int) *Limiter {
	return &Limiter{Max: max, attempts: make(map[string]int)}
}

func (l *Limiter) Attempt(_ context.Context, addr string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := throttle.Key(addr)
	l.attempts[key]++
	return l.attempts[key] <= l.Max, nil
}

func (l *Limiter) Reset(_ context.Context, addr string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, throttle.Key(addr))
	return nil
}
