package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

const (
	observationsCollection = "observations"
	treatmentsCollection   = "treatments"
	vaccinationsCollection = "vaccinations"
	alertsCollection       = "alerts"
)

// MongoDBRepository stores health records and alerts in MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// EnsureIndexes creates the per-animal lookup indexes.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	specs := map[string]bson.D{
		observationsCollection: {{Key: "animal_id", Value: 1}, {Key: "recorded_at", Value: -1}},
		treatmentsCollection:   {{Key: "animal_id", Value: 1}, {Key: "administered_at", Value: -1}},
		vaccinationsCollection: {{Key: "animal_id", Value: 1}, {Key: "administered_date", Value: -1}},
		alertsCollection:       {{Key: "animal_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	for coll, keys := range specs {
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

// AppendObservation inserts a new observation.
func (r *MongoDBRepository) AppendObservation(ctx context.Context, obs models.Observation) error {
	if _, err := r.db.Collection(observationsCollection).InsertOne(ctx, obs); err != nil {
		return fmt.Errorf("failed to insert observation: %w", err)
	}
	return nil
}

// UpdateObservation replaces a stored observation.
func (r *MongoDBRepository) UpdateObservation(ctx context.Context, obs models.Observation) error {
	return r.replace(ctx, observationsCollection, obs.ID, obs)
}

// GetObservation loads one observation by id.
func (r *MongoDBRepository) GetObservation(ctx context.Context, id string) (models.Observation, error) {
	var obs models.Observation
	err := r.findOne(ctx, observationsCollection, id, &obs)
	return obs, err
}

// ListObservations returns every observation of an animal, newest first.
func (r *MongoDBRepository) ListObservations(ctx context.Context, animalID string) ([]models.Observation, error) {
	var out []models.Observation
	err := r.findByAnimal(ctx, observationsCollection, animalID, "recorded_at", &out)
	return out, err
}

// AppendTreatment inserts a new treatment.
func (r *MongoDBRepository) AppendTreatment(ctx context.Context, t models.Treatment) error {
	if _, err := r.db.Collection(treatmentsCollection).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to insert treatment: %w", err)
	}
	return nil
}

// UpdateTreatment replaces a stored treatment.
func (r *MongoDBRepository) UpdateTreatment(ctx context.Context, t models.Treatment) error {
	return r.replace(ctx, treatmentsCollection, t.ID, t)
}

// GetTreatment loads one treatment by id.
func (r *MongoDBRepository) GetTreatment(ctx context.Context, id string) (models.Treatment, error) {
	var t models.Treatment
	err := r.findOne(ctx, treatmentsCollection, id, &t)
	return t, err
}

// DeleteTreatment removes a treatment.
func (r *MongoDBRepository) DeleteTreatment(ctx context.Context, id string) error {
	res, err := r.db.Collection(treatmentsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete treatment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListTreatments returns every treatment of an animal, newest first.
func (r *MongoDBRepository) ListTreatments(ctx context.Context, animalID string) ([]models.Treatment, error) {
	var out []models.Treatment
	err := r.findByAnimal(ctx, treatmentsCollection, animalID, "administered_at", &out)
	return out, err
}

// AppendVaccination inserts a new vaccination.
func (r *MongoDBRepository) AppendVaccination(ctx context.Context, v models.Vaccination) error {
	if _, err := r.db.Collection(vaccinationsCollection).InsertOne(ctx, v); err != nil {
		return fmt.Errorf("failed to insert vaccination: %w", err)
	}
	return nil
}

// ListVaccinations returns every vaccination of an animal, newest first.
func (r *MongoDBRepository) ListVaccinations(ctx context.Context, animalID string) ([]models.Vaccination, error) {
	var out []models.Vaccination
	err := r.findByAnimal(ctx, vaccinationsCollection, animalID, "administered_date", &out)
	return out, err
}

// SaveAlert inserts a new alert.
func (r *MongoDBRepository) SaveAlert(ctx context.Context, a models.Alert) error {
	if _, err := r.db.Collection(alertsCollection).InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// UpdateAlert replaces a stored alert.
func (r *MongoDBRepository) UpdateAlert(ctx context.Context, a models.Alert) error {
	return r.replace(ctx, alertsCollection, a.ID, a)
}

// GetAlert loads one alert by id.
func (r *MongoDBRepository) GetAlert(ctx context.Context, id string) (models.Alert, error) {
	var a models.Alert
	err := r.findOne(ctx, alertsCollection, id, &a)
	return a, err
}

// ListAlerts returns every alert of an animal, including terminal ones.
func (r *MongoDBRepository) ListAlerts(ctx context.Context, animalID string) ([]models.Alert, error) {
	var out []models.Alert
	err := r.findByAnimal(ctx, alertsCollection, animalID, "created_at", &out)
	return out, err
}

// ListAnimalIDs returns the ids of all animals with at least one observation.
func (r *MongoDBRepository) ListAnimalIDs(ctx context.Context) ([]string, error) {
	values, err := r.db.Collection(observationsCollection).Distinct(ctx, "animal_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findOne(ctx context.Context, coll, id string, out any) error {
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s %s: %w", coll, id, err)
	}
	return nil
}

func (r *MongoDBRepository) findByAnimal(ctx context.Context, coll, animalID, sortField string, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	cursor, err := r.db.Collection(coll).Find(ctx, bson.M{"animal_id": animalID}, opts)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", coll, err)
	}
	return nil
}

func (r *MongoDBRepository) replace(ctx context.Context, coll, id string, doc any) error {
	res, err := r.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", coll, id, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
