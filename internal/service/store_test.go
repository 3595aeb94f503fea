package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
)

// memData is an in-memory database used by the service tests.
type memData struct {
	users      map[uuid.UUID]model.User
	tutors     map[uuid.UUID]model.TutorProfile
	categories map[uuid.UUID]model.Category
	slots      map[uuid.UUID]model.Availability
	bookings   map[uuid.UUID]model.Booking
	reviews    map[uuid.UUID]model.Review
	clock      time.Time
	// locks records row locks in the order they were taken.
	locks []string
}

func newMemData() *memData {
	return &memData{
		users:      map[uuid.UUID]model.User{},
		tutors:     map[uuid.UUID]model.TutorProfile{},
		categories: map[uuid.UUID]model.Category{},
		slots:      map[uuid.UUID]model.Availability{},
		bookings:   map[uuid.UUID]model.Booking{},
		reviews:    map[uuid.UUID]model.Review{},
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (d *memData) tick() time.Time {
	d.clock = d.clock.Add(time.Second)
	return d.clock
}

func (d *memData) clone() *memData {
	c := newMemData()
	c.clock = d.clock
	c.locks = d.locks
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.tutors {
		c.tutors[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	return c
}

// memStore implements repository.Store over memData. Transactions snapshot
// the data and restore it when fn fails. Individual repositories can be
// replaced with mocks.
type memStore struct {
	data        *memData
	tutorsRepo  repository.TutorRepository
	reviewsRepo repository.ReviewRepository
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{data: newMemData()}
}

func (s *memStore) Users() repository.UserRepository { return &memUsers{d: s.data} }
func (s *memStore) Tutors() repository.TutorRepository {
	if s.tutorsRepo != nil {
		return s.tutorsRepo
	}
	return &memTutors{d: s.data}
}
func (s *memStore) Categories() repository.CategoryRepository { return &memCategories{d: s.data} }
func (s *memStore) Availability() repository.AvailabilityRepository {
	return &memSlots{d: s.data}
}
func (s *memStore) Bookings() repository.BookingRepository { return &memBookings{d: s.data} }
func (s *memStore) Reviews() repository.ReviewRepository {
	if s.reviewsRepo != nil {
		return s.reviewsRepo
	}
	return &memReviews{d: s.data}
}

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	snapshot := s.data.clone()
	if err := fn(ctx, s); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func page[T any](items []T, p pagination.Params) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// users

type memUsers struct{ d *memData }

func (r *memUsers) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.d.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.d.tick()
	stored := *user
	stored.TutorProfile = nil
	r.d.users[user.ID] = stored
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.d.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, p := range r.d.tutors {
		if p.UserID == id {
			profile := p
			u.TutorProfile = &profile
		}
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.d.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) UpdateActive(ctx context.Context, id uuid.UUID, active bool) error {
	u, ok := r.d.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	r.d.users[id] = u
	return nil
}

// Delete emulates the ON DELETE CASCADE constraints.
func (r *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.d.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.d.users, id)

	for pid, p := range r.d.tutors {
		if p.UserID != id {
			continue
		}
		delete(r.d.tutors, pid)
		for sid, s := range r.d.slots {
			if s.TutorID == pid {
				delete(r.d.slots, sid)
			}
		}
		for bid, b := range r.d.bookings {
			if b.TutorID == pid {
				delete(r.d.bookings, bid)
			}
		}
		for rid, rv := range r.d.reviews {
			if rv.TutorID == pid {
				delete(r.d.reviews, rid)
			}
		}
	}
	for bid, b := range r.d.bookings {
		if b.StudentID == id {
			delete(r.d.bookings, bid)
		}
	}
	for rid, rv := range r.d.reviews {
		if rv.StudentID == id {
			delete(r.d.reviews, rid)
		}
	}
	return nil
}

func (r *memUsers) List(ctx context.Context, filter repository.UserFilter, p pagination.Params) ([]model.User, int64, error) {
	var out []model.User
	search := strings.ToLower(filter.Search)
	for _, u := range r.d.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, p), int64(len(out)), nil
}

func (r *memUsers) Count(ctx context.Context, role *model.Role) (int64, error) {
	var n int64
	for _, u := range r.d.users {
		if role == nil || u.Role == *role {
			n++
		}
	}
	return n, nil
}

// tutors

type memTutors struct{ d *memData }

func (r *memTutors) Create(ctx context.Context, profile *model.TutorProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.CreatedAt = r.d.tick()
	r.d.tutors[profile.ID] = *profile
	return nil
}

func (r *memTutors) FindByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	p, ok := r.d.tutors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memTutors) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	r.d.locks = append(r.d.locks, "tutor:"+id.String())
	return r.FindByID(ctx, id)
}

func (r *memTutors) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	for _, p := range r.d.tutors {
		if p.UserID == userID {
			found := p
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTutors) FindDetail(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u, ok := r.d.users[p.UserID]; ok {
		p.User = &u
	}
	p.Availability, _ = (&memSlots{d: r.d}).ListByTutor(ctx, id)
	p.Reviews, _, _ = (&memReviews{d: r.d}).ListByTutor(ctx, id, pagination.Params{Page: 1, Limit: repository.LatestReviewsOnProfile})
	return p, nil
}

func (r *memTutors) Update(ctx context.Context, profile *model.TutorProfile) error {
	stored, ok := r.d.tutors[profile.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Bio = profile.Bio
	stored.HourlyRate = profile.HourlyRate
	stored.Subjects = profile.Subjects
	stored.Qualifications = profile.Qualifications
	stored.Experience = profile.Experience
	r.d.tutors[profile.ID] = stored
	return nil
}

func (r *memTutors) UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	stored, ok := r.d.tutors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Rating = rating
	stored.TotalReviews = totalReviews
	r.d.tutors[id] = stored
	return nil
}

func (r *memTutors) List(ctx context.Context, filter repository.TutorFilter, p pagination.Params) ([]model.TutorProfile, int64, error) {
	var out []model.TutorProfile
	subject := strings.ToLower(strings.TrimSpace(filter.Subject))
	for _, t := range r.d.tutors {
		if subject != "" && !containsString(t.Subjects, subject) {
			continue
		}
		if filter.MinRating != nil && t.Rating.LessThan(*filter.MinRating) {
			continue
		}
		if filter.MaxPrice != nil && t.HourlyRate.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Rating.Equal(out[j].Rating) {
			return out[i].Rating.GreaterThan(out[j].Rating)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, p), int64(len(out)), nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// categories

type memCategories struct{ d *memData }

func (r *memCategories) Create(ctx context.Context, category *model.Category) error {
	for _, c := range r.d.categories {
		if c.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = r.d.tick()
	r.d.categories[category.ID] = *category
	return nil
}

func (r *memCategories) Update(ctx context.Context, category *model.Category) error {
	r.d.categories[category.ID] = *category
	return nil
}

func (r *memCategories) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.d.categories, id)
	return nil
}

func (r *memCategories) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.d.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCategories) FindByName(ctx context.Context, name string) (*model.Category, error) {
	for _, c := range r.d.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategories) List(ctx context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.d.categories))
	for _, c := range r.d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// availability

type memSlots struct{ d *memData }

func (r *memSlots) Create(ctx context.Context, slot *model.Availability) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.CreatedAt = r.d.tick()
	r.d.slots[slot.ID] = *slot
	return nil
}

func (r *memSlots) FindByID(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	s, ok := r.d.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *memSlots) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.d.slots, id)
	return nil
}

func (r *memSlots) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Availability, error) {
	var out []model.Availability
	for _, s := range r.d.slots {
		if s.TutorID == tutorID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

// bookings

type memBookings struct{ d *memData }

func (r *memBookings) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = r.d.tick()
	r.d.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookings) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.d.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.d.locks = append(r.d.locks, "booking:"+id.String())
	return r.FindByID(ctx, id)
}

func (r *memBookings) LockByUser(ctx context.Context, userID uuid.UUID) error {
	r.d.locks = append(r.d.locks, "bookings-of:"+userID.String())
	return nil
}

func (r *memBookings) FindDetail(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c, ok := r.d.categories[b.CategoryID]; ok {
		b.Category = &c
	}
	if t, ok := r.d.tutors[b.TutorID]; ok {
		b.Tutor = &t
	}
	if u, ok := r.d.users[b.StudentID]; ok {
		b.Student = &u
	}
	for _, rv := range r.d.reviews {
		if rv.BookingID == id {
			review := rv
			b.Review = &review
		}
	}
	return b, nil
}

func (r *memBookings) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	b, ok := r.d.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	r.d.bookings[id] = b
	return nil
}

func (r *memBookings) filtered(filter repository.BookingFilter) []model.Booking {
	var out []model.Booking
	for _, b := range r.d.bookings {
		if filter.StudentID != nil && b.StudentID != *filter.StudentID {
			continue
		}
		if filter.TutorID != nil && b.TutorID != *filter.TutorID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (r *memBookings) List(ctx context.Context, filter repository.BookingFilter, p pagination.Params) ([]model.Booking, int64, error) {
	out := r.filtered(filter)
	sort.Slice(out, func(i, j int) bool { return out[i].SessionDate.After(out[j].SessionDate) })
	return page(out, p), int64(len(out)), nil
}

func (r *memBookings) Recent(ctx context.Context, n int) ([]model.Booking, error) {
	out := r.filtered(repository.BookingFilter{})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *memBookings) Count(ctx context.Context) (int64, error) {
	return int64(len(r.d.bookings)), nil
}

func (r *memBookings) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	counts := map[model.BookingStatus]int64{}
	for _, b := range r.d.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *memBookings) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.d.bookings {
		if b.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// reviews

type memReviews struct{ d *memData }

func (r *memReviews) Create(ctx context.Context, review *model.Review) error {
	for _, rv := range r.d.reviews {
		if rv.BookingID == review.BookingID {
			return gorm.ErrDuplicatedKey
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = r.d.tick()
	r.d.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) Update(ctx context.Context, review *model.Review) error {
	stored, ok := r.d.reviews[review.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Rating = review.Rating
	stored.Comment = review.Comment
	r.d.reviews[review.ID] = stored
	return nil
}

func (r *memReviews) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.d.reviews, id)
	return nil
}

func (r *memReviews) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := r.d.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
}

func (r *memReviews) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error) {
	for _, rv := range r.d.reviews {
		if rv.BookingID == bookingID {
			found := rv
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memReviews) ListByTutor(ctx context.Context, tutorID uuid.UUID, p pagination.Params) ([]model.Review, int64, error) {
	var out []model.Review
	for _, rv := range r.d.reviews {
		if rv.TutorID == tutorID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, p), int64(len(out)), nil
}

func (r *memReviews) RatingStats(ctx context.Context, tutorID uuid.UUID) (repository.RatingStats, error) {
	var stats repository.RatingStats
	for _, rv := range r.d.reviews {
		if rv.TutorID == tutorID {
			stats.RatingSum += int64(rv.Rating)
			stats.Total++
		}
	}
	return stats, nil
}

func (r *memReviews) TutorIDsByStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, rv := range r.d.reviews {
		if rv.StudentID == studentID && !seen[rv.TutorID] {
			seen[rv.TutorID] = true
			ids = append(ids, rv.TutorID)
		}
	}
	return ids, nil
}

func (r *memReviews) Count(ctx context.Context) (int64, error) {
	return int64(len(r.d.reviews)), nil
}
