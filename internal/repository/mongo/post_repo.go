package mongo

import (
	"context"
	"regexp"
	"time"

	"Volunteer_Hub/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	model.Post `bson:",inline"`
}

func (d *postDoc) toModel() model.Post {
	p := d.Post
	p.ID = d.ID.Hex()
	return p
}

type PostRepository struct {
	coll *mongo.Collection
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) (*model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, &postDoc{Post: *post})
	if err != nil {
		return nil, err
	}
	post.ID = insertedID(res.InsertedID)
	return &model.InsertResult{Acknowledged: true, InsertedID: post.ID}, nil
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

// SearchByTitle 关键字按字面量匹配，正则元字符会被转义
func (r *PostRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Post, error) {
	filter := bson.M{
		"postTitle": bson.M{
			"$regex":   regexp.QuoteMeta(keyword),
			"$options": "i",
		},
	}
	return r.find(ctx, filter)
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.toModel()
	return &p, nil
}

func (r *PostRepository) ListByOrganizer(ctx context.Context, email string) ([]model.Post, error) {
	return r.find(ctx, bson.M{"organizer_email": email})
}

// Upsert createdAt 只在插入时写入，其余字段整体覆盖
func (r *PostRepository) Upsert(ctx context.Context, id string, post *model.Post) (*model.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	raw, err := bson.Marshal(post)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	delete(set, "createdAt")

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return toUpdateResult(res), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
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

// DecrementSlots 条件 $inc：只有剩余名额 > 0 才扣减
func (r *PostRepository) DecrementSlots(ctx context.Context, id string) (*model.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"_id":                  oid,
		"noOfVolunteersNeeded": bson.M{"$gt": 0},
	}
	update := bson.M{"$inc": bson.M{"noOfVolunteersNeeded": -1}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	return toUpdateResult(res), nil
}

func (r *PostRepository) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]model.Post, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]model.Post, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toModel())
	}
	return list, nil
}

func toUpdateResult(res *mongo.UpdateResult) *model.UpdateResult {
	out := &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		out.UpsertedID = insertedID(res.UpsertedID)
	}
	return out
}
