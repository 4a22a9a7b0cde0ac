package mongo

import (
	"context"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type requestDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	model.VolunteerRequest `bson:",inline"`
}

func (d *requestDoc) toModel() model.VolunteerRequest {
	r := d.VolunteerRequest
	r.ID = d.ID.Hex()
	return r
}

type RequestRepository struct {
	coll *mongo.Collection
}

// FindDuplicate 按去重键对应的原始字段查询，老数据没有 dedup_key 也能命中
func (r *RequestRepository) FindDuplicate(ctx context.Context, key model.DedupKey) (*model.VolunteerRequest, error) {
	emailField := "organizer_email"
	if key.Scope == model.DedupByVolunteer {
		emailField = "volunteer_email"
	}
	var doc requestDoc
	err := r.coll.FindOne(ctx, bson.M{emailField: key.Email, "id": key.PostID}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	req := doc.toModel()
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *model.VolunteerRequest) (*model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, &requestDoc{VolunteerRequest: *req})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	req.ID = insertedID(res.InsertedID)
	return &model.InsertResult{Acknowledged: true, InsertedID: req.ID}, nil
}

func (r *RequestRepository) ListByVolunteer(ctx context.Context, email string) ([]model.VolunteerRequest, error) {
	cur, err := r.coll.Find(ctx, bson.M{"volunteer_email": email})
	if err != nil {
		return nil, err
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]model.VolunteerRequest, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toModel())
	}
	return list, nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
