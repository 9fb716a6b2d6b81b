package store

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"

	"github.com/google/uuid"
)

// Users returns a copy of the user collection
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// UserByID looks up a user
func (s *Store) UserByID(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// UserName resolves a user id to a display name. Lookup misses degrade
// to a placeholder so read paths never fail.
func (s *Store) UserName(id string) string {
	u, err := s.UserByID(id)
	if err != nil {
		return "Unknown"
	}
	return u.Name
}

// AddUser inserts a user
func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Name == "" || u.Role == "" {
		return models.User{}, fmt.Errorf("user name and role are required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	s.users = append(s.users, u)
	if err := s.persist(ctx, KeyUsers, s.users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpdateUser replaces an existing user
func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return s.persist(ctx, KeyUsers, s.users)
		}
	}
	return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
}

// DeleteUser removes a user
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return s.persist(ctx, KeyUsers, s.users)
		}
	}
	return fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// AuthByEmail finds login credentials by email
func (s *Store) AuthByEmail(email string) (models.UserAuth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.usersAuth {
		if a.Email == email {
			return a, nil
		}
	}
	return models.UserAuth{}, fmt.Errorf("credentials for %s: %w", email, ErrNotFound)
}

// SetAuth inserts or replaces credentials for one user
func (s *Store) SetAuth(ctx context.Context, a models.UserAuth) error {
	if a.UserID == "" || a.Email == "" {
		return fmt.Errorf("credentials require user and email: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.usersAuth {
		if s.usersAuth[i].UserID == a.UserID {
			s.usersAuth[i] = a
			return s.persist(ctx, KeyUsersAuth, s.usersAuth)
		}
	}
	s.usersAuth = append(s.usersAuth, a)
	return s.persist(ctx, KeyUsersAuth, s.usersAuth)
}

// CompanyInfo returns the school/company record
func (s *Store) CompanyInfo() models.CompanyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyInfo
}

// SetCompanyInfo replaces the school/company record
func (s *Store) SetCompanyInfo(ctx context.Context, info models.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companyInfo = info
	return s.persist(ctx, KeyCompanyInfo, s.companyInfo)
}

// Theme returns the stored UI theme name
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the UI theme name
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.persist(ctx, KeyTheme, s.theme)
}

// Recipes returns a copy of the recipe collection
func (s *Store) Recipes() []models.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Recipe(nil), s.recipes...)
}

// RecipeByID looks up a recipe
func (s *Store) RecipeByID(id string) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
}

// AddRecipe inserts a recipe
func (s *Store) AddRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.Name == "" {
		return models.Recipe{}, fmt.Errorf("recipe name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	s.recipes = append(s.recipes, r)
	if err := s.persist(ctx, KeyRecipes, s.recipes); err != nil {
		return models.Recipe{}, err
	}
	return r, nil
}

// UpdateRecipe replaces an existing recipe
func (s *Store) UpdateRecipe(ctx context.Context, r models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recipes {
		if s.recipes[i].ID == r.ID {
			s.recipes[i] = r
			return s.persist(ctx, KeyRecipes, s.recipes)
		}
	}
	return fmt.Errorf("recipe %s: %w", r.ID, ErrNotFound)
}

// DeleteRecipe removes a recipe
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return s.persist(ctx, KeyRecipes, s.recipes)
		}
	}
	return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
}

// ServiceGroups returns a copy of the service-group collection
func (s *Store) ServiceGroups() []models.ServiceGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ServiceGroup(nil), s.serviceGroups...)
}

// AddServiceGroup inserts a service group
func (s *Store) AddServiceGroup(ctx context.Context, g models.ServiceGroup) (models.ServiceGroup, error) {
	if g.Name == "" {
		return models.ServiceGroup{}, fmt.Errorf("service group name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	s.serviceGroups = append(s.serviceGroups, g)
	if err := s.persist(ctx, KeyServiceGroups, s.serviceGroups); err != nil {
		return models.ServiceGroup{}, err
	}
	return g, nil
}

// Services returns a copy of the planned-service collection
func (s *Store) Services() []models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Service(nil), s.services...)
}

// AddService inserts a planned service
func (s *Store) AddService(ctx context.Context, svc models.Service) (models.Service, error) {
	if svc.Name == "" {
		return models.Service{}, fmt.Errorf("service name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	s.services = append(s.services, svc)
	if err := s.persist(ctx, KeyServices, s.services); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

// UpdateService replaces a planned service
func (s *Store) UpdateService(ctx context.Context, svc models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.services {
		if s.services[i].ID == svc.ID {
			s.services[i] = svc
			return s.persist(ctx, KeyServices, s.services)
		}
	}
	return fmt.Errorf("service %s: %w", svc.ID, ErrNotFound)
}

// DeleteService removes a planned service
func (s *Store) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.services {
		if s.services[i].ID == id {
			s.services = append(s.services[:i], s.services[i+1:]...)
			return s.persist(ctx, KeyServices, s.services)
		}
	}
	return fmt.Errorf("service %s: %w", id, ErrNotFound)
}

// Sales returns a copy of the sales log
func (s *Store) Sales() []models.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Sale(nil), s.sales...)
}

// AddSale appends a sale record
func (s *Store) AddSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	s.sales = append(s.sales, sale)
	if err := s.persist(ctx, KeySales, s.sales); err != nil {
		return models.Sale{}, err
	}
	return sale, nil
}

// Classrooms returns a copy of the classroom collection
func (s *Store) Classrooms() []models.Classroom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Classroom(nil), s.classrooms...)
}

// ClassroomByID looks up a classroom
func (s *Store) ClassroomByID(id string) (models.Classroom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.classrooms {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Classroom{}, fmt.Errorf("classroom %s: %w", id, ErrNotFound)
}

// AddClassroom inserts a classroom
func (s *Store) AddClassroom(ctx context.Context, c models.Classroom) (models.Classroom, error) {
	if c.Name == "" {
		return models.Classroom{}, fmt.Errorf("classroom name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.classrooms = append(s.classrooms, c)
	if err := s.persist(ctx, KeyClassrooms, s.classrooms); err != nil {
		return models.Classroom{}, err
	}
	return c, nil
}

// UpdateClassroom replaces a classroom, including its sandbox dataset
func (s *Store) UpdateClassroom(ctx context.Context, c models.Classroom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.classrooms {
		if s.classrooms[i].ID == c.ID {
			s.classrooms[i] = c
			return s.persist(ctx, KeyClassrooms, s.classrooms)
		}
	}
	return fmt.Errorf("classroom %s: %w", c.ID, ErrNotFound)
}

// DeleteClassroom removes a classroom and its sandbox dataset
func (s *Store) DeleteClassroom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.classrooms {
		if s.classrooms[i].ID == id {
			s.classrooms = append(s.classrooms[:i], s.classrooms[i+1:]...)
			return s.persist(ctx, KeyClassrooms, s.classrooms)
		}
	}
	return fmt.Errorf("classroom %s: %w", id, ErrNotFound)
}

// BackupHistory returns a copy of the backup history log
func (s *Store) BackupHistory() []models.BackupRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BackupRecord(nil), s.backupHistory...)
}

// AddBackupRecord appends one backup history entry
func (s *Store) AddBackupRecord(ctx context.Context, rec models.BackupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.backupHistory = append(s.backupHistory, rec)
	return s.persist(ctx, KeyBackupHistory, s.backupHistory)
}

// Cycles returns a copy of the academic cycle collection
func (s *Store) Cycles() []models.Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Cycle(nil), s.cycles...)
}

// AddCycle inserts an academic cycle
func (s *Store) AddCycle(ctx context.Context, c models.Cycle) (models.Cycle, error) {
	if c.Name == "" {
		return models.Cycle{}, fmt.Errorf("cycle name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.cycles = append(s.cycles, c)
	if err := s.persist(ctx, KeyCycles, s.cycles); err != nil {
		return models.Cycle{}, err
	}
	return c, nil
}

// Modules returns a copy of the academic module collection
func (s *Store) Modules() []models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Module(nil), s.modules...)
}

// AddModule inserts an academic module
func (s *Store) AddModule(ctx context.Context, m models.Module) (models.Module, error) {
	if m.Name == "" {
		return models.Module{}, fmt.Errorf("module name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	s.modules = append(s.modules, m)
	if err := s.persist(ctx, KeyModules, s.modules); err != nil {
		return models.Module{}, err
	}
	return m, nil
}

// Groups returns a copy of the academic group collection
func (s *Store) Groups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Group(nil), s.groups...)
}

// AddGroup inserts an academic group
func (s *Store) AddGroup(ctx context.Context, g models.Group) (models.Group, error) {
	if g.Name == "" {
		return models.Group{}, fmt.Errorf("group name is required: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	s.groups = append(s.groups, g)
	if err := s.persist(ctx, KeyGroups, s.groups); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Assignments returns a copy of the teaching-assignment collection
func (s *Store) Assignments() []models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Assignment(nil), s.assignments...)
}

// AddAssignment inserts a teaching assignment
func (s *Store) AddAssignment(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	if a.GroupID == "" || a.TeacherID == "" {
		return models.Assignment{}, fmt.Errorf("assignment requires group and teacher: %w", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	s.assignments = append(s.assignments, a)
	if err := s.persist(ctx, KeyAssignments, s.assignments); err != nil {
		return models.Assignment{}, err
	}
	return a, nil
}
