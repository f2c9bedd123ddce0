package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusgrid/orgcanvas/pkg/org"
)

// Collection names in the organization database.
const (
	colCompanies = "companies"
	colSchools   = "schools"
	colBranches  = "branches"
	colGrades    = "grade_levels"
	colSections  = "class_sections"
)

// Mongo is the production Store backed by MongoDB. Each entity level lives
// in its own collection; children are assembled at read time so lazy loading
// maps directly onto children-of queries.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// MongoConfig holds connection settings for the Mongo store.
type MongoConfig struct {
	URI      string // e.g. "mongodb://localhost:27017"
	Database string // e.g. "campusgrid"
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping %s: %w", cfg.URI, err)
	}
	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

// Company returns the company with its schools embedded.
func (s *Mongo) Company(ctx context.Context, companyID string) (*org.Company, error) {
	var c org.Company
	err := s.db.Collection(colCompanies).FindOne(ctx, bson.M{"_id": companyID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company %s: %w", companyID, err)
	}

	cur, err := s.db.Collection(colSchools).Find(ctx, bson.M{"company_id": companyID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find schools of %s: %w", companyID, err)
	}
	if err := cur.All(ctx, &c.Schools); err != nil {
		return nil, fmt.Errorf("decode schools of %s: %w", companyID, err)
	}
	return &c, nil
}

// BranchesOf lists a school's branches sorted by name.
func (s *Mongo) BranchesOf(ctx context.Context, schoolID string) ([]org.Branch, error) {
	var out []org.Branch
	cur, err := s.db.Collection(colBranches).Find(ctx, bson.M{"school_id": schoolID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find branches of %s: %w", schoolID, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode branches of %s: %w", schoolID, err)
	}
	return out, nil
}

// GradeLevelsOf lists a branch's grade levels sorted by name.
func (s *Mongo) GradeLevelsOf(ctx context.Context, branchID string) ([]org.GradeLevel, error) {
	var out []org.GradeLevel
	cur, err := s.db.Collection(colGrades).Find(ctx, bson.M{"branch_id": branchID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find grade levels of %s: %w", branchID, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode grade levels of %s: %w", branchID, err)
	}
	return out, nil
}

// SectionsOf lists a grade level's sections sorted by name.
func (s *Mongo) SectionsOf(ctx context.Context, gradeID string) ([]org.ClassSection, error) {
	var out []org.ClassSection
	cur, err := s.db.Collection(colSections).Find(ctx, bson.M{"grade_level_id": gradeID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find sections of %s: %w", gradeID, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode sections of %s: %w", gradeID, err)
	}
	return out, nil
}

// Branch returns a single branch.
func (s *Mongo) Branch(ctx context.Context, branchID string) (*org.Branch, error) {
	var b org.Branch
	err := s.db.Collection(colBranches).FindOne(ctx, bson.M{"_id": branchID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find branch %s: %w", branchID, err)
	}
	return &b, nil
}

// CreateBranch inserts a branch, assigning an ID when empty.
func (s *Mongo) CreateBranch(ctx context.Context, b org.Branch) (*org.Branch, error) {
	if b.ID == "" {
		b.ID = org.NewID()
	}
	if b.Status == "" {
		b.Status = org.StatusActive
	}
	if _, err := s.db.Collection(colBranches).InsertOne(ctx, b); err != nil {
		return nil, fmt.Errorf("insert branch %s: %w", b.ID, err)
	}
	return &b, nil
}

// UpdateBranch replaces an existing branch.
func (s *Mongo) UpdateBranch(ctx context.Context, b org.Branch) (*org.Branch, error) {
	res, err := s.db.Collection(colBranches).ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return nil, fmt.Errorf("update branch %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &b, nil
}

// DeleteBranch removes a branch and cascades to its grade levels and
// sections.
func (s *Mongo) DeleteBranch(ctx context.Context, branchID string) error {
	res, err := s.db.Collection(colBranches).DeleteOne(ctx, bson.M{"_id": branchID})
	if err != nil {
		return fmt.Errorf("delete branch %s: %w", branchID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	cur, err := s.db.Collection(colGrades).Find(ctx, bson.M{"branch_id": branchID})
	if err != nil {
		return fmt.Errorf("find grade levels of %s: %w", branchID, err)
	}
	var grades []org.GradeLevel
	if err := cur.All(ctx, &grades); err != nil {
		return fmt.Errorf("decode grade levels of %s: %w", branchID, err)
	}
	gradeIDs := make([]string, len(grades))
	for i, g := range grades {
		gradeIDs[i] = g.ID
	}

	if _, err := s.db.Collection(colSections).DeleteMany(ctx, bson.M{"grade_level_id": bson.M{"$in": gradeIDs}}); err != nil {
		return fmt.Errorf("delete sections under %s: %w", branchID, err)
	}
	if _, err := s.db.Collection(colGrades).DeleteMany(ctx, bson.M{"branch_id": branchID}); err != nil {
		return fmt.Errorf("delete grade levels under %s: %w", branchID, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
