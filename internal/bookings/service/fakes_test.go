package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/bookings/validator"
	"villa/internal/notifications"
	"villa/pkg/auth"
	"villa/pkg/config"
	mongotx "villa/pkg/db/mongo"
	"villa/pkg/logger"
	"villa/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// In-memory repositories
// ────────────────────────────────────────────────

type memBookingRepository struct {
	mu      sync.Mutex
	records map[string]*model.Booking

	createFunc       func(b *model.Booking) error
	updateStatusFunc func(id string, from, to model.BookingStatus) error

	// afterTx runs when a transaction ends, with its id.
	afterTx func(txID string)
}

func newMemBookingRepository() *memBookingRepository {
	return &memBookingRepository{records: make(map[string]*model.Booking)}
}

func (m *memBookingRepository) put(b *model.Booking) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	if b.RecordKind == "" {
		b.RecordKind = model.RecordKindBooking
	}
	cp := *b
	m.records[b.ID] = &cp
	return b
}

func (m *memBookingRepository) get(id string) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (m *memBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if m.createFunc != nil {
		if err := m.createFunc(b); err != nil {
			return err
		}
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.put(b)
	return nil
}

func (m *memBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, bookingserrors.ErrInvalidID
	}
	if b := m.get(id); b != nil {
		return b, nil
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *memBookingRepository) filter(keep func(b *model.Booking) bool) []*model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Booking, 0)
	for _, b := range m.records {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	out := m.filter(func(b *model.Booking) bool { return b.UserID == userID && !b.IsBlock() })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	out := m.filter(func(*model.Booking) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int(offset) >= len(out) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memBookingRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *memBookingRepository) FindBlocks(ctx context.Context) ([]*model.Booking, error) {
	out := m.filter(func(b *model.Booking) bool { return b.IsBlock() })
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(*out[j].CheckIn) })
	return out, nil
}

func (m *memBookingRepository) FindConfirmedOverlapping(ctx context.Context, stay model.DateRange, excludeID string) ([]*model.Booking, error) {
	if excludeID != "" && !primitive.IsValidObjectID(excludeID) {
		return nil, bookingserrors.ErrInvalidID
	}
	return m.filter(func(b *model.Booking) bool {
		return b.Status == model.StatusConfirmed &&
			b.CheckIn != nil && b.CheckOut != nil &&
			b.CheckIn.Before(stay.End) && b.CheckOut.After(stay.Start) &&
			b.ID != excludeID
	}), nil
}

func (m *memBookingRepository) FindConfirmed(ctx context.Context) ([]*model.Booking, error) {
	out := m.filter(func(b *model.Booking) bool { return b.Status == model.StatusConfirmed && b.CheckIn != nil })
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(*out[j].CheckIn) })
	return out, nil
}

func (m *memBookingRepository) FindCompletable(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	return m.filter(func(b *model.Booking) bool {
		return b.Status == model.StatusConfirmed && !b.IsBlock() && b.CheckOut != nil && !b.CheckOut.After(before)
	}), nil
}

func (m *memBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		if err := m.updateStatusFunc(id, from, to); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[id]
	if !ok || b.Status != from {
		return bookingserrors.ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memBookingRepository) AssignRoom(ctx context.Context, id string, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.records[id]; ok && b.RoomID == "" {
		b.RoomID = roomID
	}
	return nil
}

func (m *memBookingRepository) UpdateBlock(ctx context.Context, id string, stay model.DateRange, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[id]
	if !ok || !b.IsBlock() {
		return bookingserrors.ErrNotFound
	}
	start, end := stay.Start, stay.End
	b.CheckIn, b.CheckOut, b.Message = &start, &end, message
	return nil
}

func (m *memBookingRepository) DeleteBlock(ctx context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return bookingserrors.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[id]
	if !ok || !b.IsBlock() {
		return bookingserrors.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

type txIDKey struct{}

func (m *memBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	txID := primitive.NewObjectID().Hex()
	if m.afterTx != nil {
		defer m.afterTx(txID)
	}
	return fn(mongo.NewSessionContext(context.WithValue(ctx, txIDKey{}, txID), nil))
}

// memLockRepository mimics the Mongo lock collection. A lock document written
// by an open transaction cannot be taken over until that transaction ends,
// the way Mongo makes an outside write wait for the transaction holding the
// document.
type memLockRepository struct {
	mu     sync.Mutex
	locks  map[string]model.BookingLock
	pinned map[string]string
}

func newMemLockRepository() *memLockRepository {
	return &memLockRepository{
		locks:  make(map[string]model.BookingLock),
		pinned: make(map[string]string),
	}
}

func (m *memLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.pinned[lock.ID]; busy {
		return false, nil
	}
	if held, ok := m.locks[lock.ID]; ok && !held.IsExpired(time.Now()) {
		return false, nil
	}
	m.locks[lock.ID] = *lock
	return true, nil
}

func (m *memLockRepository) Extend(ctx context.Context, lockID, owner string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	held, ok := m.locks[lockID]
	if !ok || held.Owner != owner {
		return bookingserrors.ErrLockHeld
	}
	held.ExpiresAt = expiresAt
	m.locks[lockID] = held
	if txID, ok := ctx.Value(txIDKey{}).(string); ok {
		m.pinned[lockID] = txID
	}
	return nil
}

func (m *memLockRepository) endTx(txID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, owner := range m.pinned {
		if owner == txID {
			delete(m.pinned, id)
		}
	}
}

func (m *memLockRepository) Release(ctx context.Context, lockID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[lockID]; ok && held.Owner == owner {
		delete(m.locks, lockID)
	}
	return nil
}

func (m *memLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.locks {
		if l.IsExpired(now) {
			delete(m.locks, id)
			n++
		}
	}
	return n, nil
}

type memCatalogRepository struct {
	roomTypes []*model.RoomType
	rooms     []*model.Room
	mealPlans []*model.MealPlan
}

func (m *memCatalogRepository) FindRoomType(ctx context.Context, id string) (*model.RoomType, error) {
	for _, rt := range m.roomTypes {
		if rt.ID == id {
			return rt, nil
		}
	}
	return nil, bookingserrors.ErrRoomTypeNotFound
}

func (m *memCatalogRepository) FindOnlyRoomType(ctx context.Context) (*model.RoomType, error) {
	if len(m.roomTypes) == 0 {
		return nil, bookingserrors.ErrRoomTypeNotFound
	}
	return m.roomTypes[0], nil
}

func (m *memCatalogRepository) FindFirstActiveRoom(ctx context.Context, roomTypeID string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.RoomTypeID == roomTypeID && r.Status == model.RoomStatusActive {
			return r, nil
		}
	}
	return nil, bookingserrors.ErrNoActiveRoom
}

func (m *memCatalogRepository) FindMealPlans(ctx context.Context, activeOnly bool) ([]*model.MealPlan, error) {
	out := make([]*model.MealPlan, 0)
	for _, p := range m.mealPlans {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memCatalogRepository) FindMealPlanByName(ctx context.Context, name string) (*model.MealPlan, error) {
	for _, p := range m.mealPlans {
		if p.Name == name && p.IsActive {
			return p, nil
		}
	}
	return nil, bookingserrors.ErrMealPlanNotFound
}

func (m *memCatalogRepository) FindDefaultMealPlan(ctx context.Context) (*model.MealPlan, error) {
	for _, p := range m.mealPlans {
		if p.IsDefault && p.IsActive {
			return p, nil
		}
	}
	return nil, bookingserrors.ErrMealPlanNotFound
}

type memUserRepository struct {
	users map[string]*model.User
}

func (m *memUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, bookingserrors.ErrUserNotFound
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (r *recordingEmitter) Emit(event notifications.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) types() []notifications.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifications.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

var (
	roomTypeID = primitive.NewObjectID().Hex()
	aliceID    = primitive.NewObjectID().Hex()
	bobID      = primitive.NewObjectID().Hex()
	adminID    = primitive.NewObjectID().Hex()

	alice = &auth.Identity{UserID: aliceID, Role: model.RoleUser, Email: "alice@example.com"}
	bob   = &auth.Identity{UserID: bobID, Role: model.RoleUser, Email: "bob@example.com"}
	admin = &auth.Identity{UserID: adminID, Role: model.RoleAdmin, Email: "ops@villa.test"}
)

type fixture struct {
	repo     *memBookingRepository
	locks    *memLockRepository
	catalog  *memCatalogRepository
	emitter  *recordingEmitter
	bookings *bookingService
	blocks   *blockService
	oracle   AvailabilityService
	locker   *Locker
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
		RoomTypeID:            roomTypeID,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		BookingLockTTL:        5 * time.Second,
		BookingLockRetries:    200,
		BookingLockRetryDelay: time.Millisecond,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()

	repo := newMemBookingRepository()
	locks := newMemLockRepository()
	repo.afterTx = locks.endTx
	catalog := &memCatalogRepository{
		roomTypes: []*model.RoomType{{ID: roomTypeID, Title: "Garden Villa", PricePerNight: 40, MaxGuests: 4}},
		rooms: []*model.Room{
			{ID: "room-b", Name: "Room B", RoomTypeID: roomTypeID, Status: model.RoomStatusActive},
		},
		mealPlans: []*model.MealPlan{
			{Name: "Room Only", Price: 0, IsActive: true, IsDefault: true},
			{Name: "Half Board", Price: 10, IsActive: true},
			{Name: "Full Board", Price: 20, IsActive: false},
		},
	}
	users := &memUserRepository{users: map[string]*model.User{
		aliceID: {ID: aliceID, Name: "Alice", Email: "alice@example.com", Role: model.RoleUser},
		bobID:   {ID: bobID, Name: "Bob", Email: "bob@example.com", Role: model.RoleUser},
		adminID: {ID: adminID, Name: "Ops", Email: "ops@villa.test", Role: model.RoleAdmin},
	}}
	emitter := &recordingEmitter{}
	v := validator.NewBookingValidator(cfg.Log)

	catalogSvc := NewCatalogService(catalog, cfg)
	oracle := NewAvailabilityService(repo)
	locker := NewLocker(locks, cfg)
	assigner := NewInventoryAssigner(repo, catalog, cfg.Log)

	clock := func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	bookings := NewBookingService(repo, users, catalogSvc, oracle, locker, assigner, v, emitter, cfg).(*bookingService)
	bookings.now = clock
	blocks := NewBlockService(repo, catalogSvc, oracle, locker, v, cfg).(*blockService)
	blocks.now = clock

	return &fixture{
		repo:     repo,
		locks:    locks,
		catalog:  catalog,
		emitter:  emitter,
		bookings: bookings,
		blocks:   blocks,
		oracle:   oracle,
		locker:   locker,
	}
}

func day(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(checkIn, checkOut string) model.DateRange {
	return model.DateRange{Start: day(checkIn), End: day(checkOut)}
}

// seed stores a record directly, bypassing the service.
func (f *fixture) seed(userID string, status model.BookingStatus, checkIn, checkOut string) *model.Booking {
	in, out := day(checkIn), day(checkOut)
	return f.repo.put(&model.Booking{
		UserID:     userID,
		RoomTypeID: roomTypeID,
		CheckIn:    &in,
		CheckOut:   &out,
		Guests:     2,
		TotalPrice: 100,
		Type:       model.BookingTypeStandard,
		RecordKind: model.RecordKindBooking,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	})
}

func standardRequest(checkIn, checkOut string, guests int) *model.BookingRequest {
	return &model.BookingRequest{
		Type:     model.BookingTypeStandard,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
	}
}
