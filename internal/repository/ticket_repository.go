package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nextalk-desk/internal/models"
)

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(models.ColTickets)}
}

// EnsureIndexes creates the phone+status lookup index the webhook relies on
// and the createdAt sort index for listing.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerPhone", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *TicketRepository) List(ctx context.Context) ([]models.Ticket, error) {
	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var result []models.Ticket
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *TicketRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) Insert(ctx context.Context, ticket *models.Ticket) error {
	ticket.ID = primitive.NewObjectID()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()
	if ticket.Messages == nil {
		ticket.Messages = []models.Message{}
	}
	_, err := r.col.InsertOne(ctx, ticket)
	return err
}

// Update applies a partial $set built from the non-nil fields of upd.
// Last write wins, there is no version check.
func (r *TicketRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.TicketUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if upd.CustomerName != nil {
		set["customerName"] = *upd.CustomerName
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.AgentID != nil {
		set["agentId"] = *upd.AgentID
	}
	if upd.AICategory != nil {
		set["aiCategory"] = *upd.AICategory
	}
	if upd.AIPriority != nil {
		set["aiPriority"] = *upd.AIPriority
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.StartedAt != nil {
		set["startedAt"] = *upd.StartedAt
	}
	if upd.ClosedAt != nil {
		set["closedAt"] = *upd.ClosedAt
	}

	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AppendMessage pushes one message and refreshes updatedAt and
// customerPhone in the same update.
func (r *TicketRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message, phone string) error {
	set := bson.M{"updatedAt": time.Now()}
	if phone != "" {
		set["customerPhone"] = phone
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  set,
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyTransition pushes a system message and sets the new status fields in
// one update, so a transfer or reopen cannot be observed half-applied.
func (r *TicketRepository) ApplyTransition(ctx context.Context, id primitive.ObjectID, sysMsg models.Message, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": sysMsg},
		"$set":  set,
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FindOpenByPhone returns the newest open or active ticket for a phone
// number, or ErrNotFound. Nothing guarantees there is only one.
func (r *TicketRepository) FindOpenByPhone(ctx context.Context, phone string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.col.FindOne(ctx, bson.M{
		"customerPhone": phone,
		"status":        bson.M{"$in": []models.TicketStatus{models.StatusOpen, models.StatusActive}},
	}, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) ListByPhone(ctx context.Context, phone string) ([]models.Ticket, error) {
	cursor, err := r.col.Find(ctx, bson.M{"customerPhone": phone},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var result []models.Ticket
	err = cursor.All(ctx, &result)
	return result, err
}
