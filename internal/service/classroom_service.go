package service

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"go.uber.org/zap"
)

// ClassroomService manages sandbox classrooms. Each classroom carries an
// isolated copy of the catalog and ordering data, scoped by classroom id
// and sharing no identity with the global collections.
type ClassroomService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewClassroomService creates a new classroom service
func NewClassroomService(st *store.Store) *ClassroomService {
	return &ClassroomService{store: st, logger: util.GetLogger()}
}

// Create opens a classroom pre-seeded with the sandbox starter dataset
func (s *ClassroomService) Create(ctx context.Context, name, teacherID string, studentIDs []string) (models.Classroom, error) {
	ctx, span := util.StartSpan(ctx, "ClassroomService.Create")
	defer span.End()

	if studentIDs == nil {
		studentIDs = []string{}
	}
	classroom := models.Classroom{
		Name:       name,
		TeacherID:  teacherID,
		StudentIDs: studentIDs,
		Data:       SandboxSeed(time.Now()),
	}
	return s.store.AddClassroom(ctx, classroom)
}

// Reset discards a classroom's dataset and re-seeds it
func (s *ClassroomService) Reset(ctx context.Context, classroomID string) (models.Classroom, error) {
	ctx, span := util.StartSpan(ctx, "ClassroomService.Reset")
	defer span.End()

	classroom, err := s.store.ClassroomByID(classroomID)
	if err != nil {
		return models.Classroom{}, err
	}
	classroom.Data = SandboxSeed(time.Now())
	if err := s.store.UpdateClassroom(ctx, classroom); err != nil {
		return models.Classroom{}, err
	}
	s.logger.Info("Classroom reset", zap.String("classroom_id", classroomID))
	return classroom, nil
}

// Get returns a classroom with its sandbox dataset
func (s *ClassroomService) Get(classroomID string) (models.Classroom, error) {
	return s.store.ClassroomByID(classroomID)
}

// UpdateData replaces a classroom's sandbox dataset wholesale. Student
// exercises mutate the copy and write it back through here.
func (s *ClassroomService) UpdateData(ctx context.Context, classroomID string, data models.ClassroomData) error {
	classroom, err := s.store.ClassroomByID(classroomID)
	if err != nil {
		return err
	}
	classroom.Data = data
	return s.store.UpdateClassroom(ctx, classroom)
}

// SandboxSeed builds the deterministic starter dataset. Ids carry a
// sandbox prefix so they can never collide with production entities.
func SandboxSeed(now time.Time) models.ClassroomData {
	suppliers := []models.Supplier{
		{ID: "sandbox-sup-1", Name: "Frutas del Sur", CIF: "B00000001", Status: models.StatusActive},
		{ID: "sandbox-sup-2", Name: "Carnes Levante", CIF: "B00000002", Status: models.StatusActive},
		{ID: "sandbox-sup-3", Name: "Lacteos Norte", CIF: "B00000003", Status: models.StatusInactive},
	}
	products := []models.Product{
		{
			ID: "sandbox-prod-1", Name: "Tomato", Reference: "SBX-001", Unit: "kg",
			Family: "Produce", Tax: 4, Status: models.StatusActive,
			Suppliers: []models.ProductSupplier{
				{SupplierID: "sandbox-sup-1", Price: 1.80, Status: models.StatusActive},
				{SupplierID: "sandbox-sup-2", Price: 2.10, Status: models.StatusActive},
			},
		},
		{
			ID: "sandbox-prod-2", Name: "Chicken breast", Reference: "SBX-002", Unit: "kg",
			Family: "Meat", Tax: 10, Status: models.StatusActive,
			Suppliers: []models.ProductSupplier{
				{SupplierID: "sandbox-sup-2", Price: 5.40, Status: models.StatusActive},
			},
		},
		{
			ID: "sandbox-prod-3", Name: "Whole milk", Reference: "SBX-003", Unit: "l",
			Family: "Dairy", Tax: 4, Status: models.StatusActive,
			Suppliers: []models.ProductSupplier{
				{SupplierID: "sandbox-sup-3", Price: 0.90, Status: models.StatusInactive},
			},
		},
	}
	families := []models.Family{
		{ID: "sandbox-fam-1", Name: "Produce"},
		{ID: "sandbox-fam-2", Name: "Meat"},
		{ID: "sandbox-fam-3", Name: "Dairy"},
	}
	categories := []models.Category{
		{ID: "sandbox-cat-1", Name: "Fresh"},
		{ID: "sandbox-cat-2", Name: "Chilled"},
	}
	recipes := []models.Recipe{
		{
			ID: "sandbox-rec-1", Name: "Chicken with tomato", Servings: 4,
			Ingredients: []models.Ingredient{
				{ProductID: "sandbox-prod-1", Quantity: 0.5, Unit: "kg"},
				{ProductID: "sandbox-prod-2", Quantity: 1, Unit: "kg"},
			},
		},
	}

	monday := MondayOf(now)
	events := []models.Event{
		{
			ID:        fmt.Sprintf("sandbox-event-%d", monday.Unix()),
			Name:      "Sandbox weekly order",
			Type:      models.EventTypeRegular,
			Status:    models.EventStatusActive,
			StartDate: monday,
			EndDate: time.Date(monday.Year(), monday.Month(), monday.Day(),
				23, 59, 59, 0, monday.Location()).AddDate(0, 0, 4),
			Budget:               50,
			AuthorizedTeacherIDs: []string{},
		},
	}

	return models.ClassroomData{
		Suppliers:  suppliers,
		Products:   products,
		Events:     events,
		Orders:     []models.Order{},
		OrderItems: []models.OrderItem{},
		Incidents:  []models.Incident{},
		Recipes:    recipes,
		Families:   families,
		Categories: categories,
	}
}
