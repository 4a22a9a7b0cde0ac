package mongo

import (
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 老数据里的 date 是前端原样提交的字符串
var looseTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

var tTime = reflect.TypeOf(time.Time{})

// Registry 在默认 registry 上替换 time.Time 的解码器
var Registry = newRegistry()

func newRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeDecoder(tTime, looseTimeDecoder{fallback: bsoncodec.NewTimeCodec()})
	return reg
}

// looseTimeDecoder 字符串按常见格式解析，解析不了记零值，其余类型交给默认 codec
type looseTimeDecoder struct {
	fallback bsoncodec.ValueDecoder
}

func (d looseTimeDecoder) DecodeValue(dc bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if vr.Type() != bsontype.String {
		return d.fallback.DecodeValue(dc, vr, val)
	}
	if !val.CanSet() || val.Type() != tTime {
		return bsoncodec.ValueDecoderError{Name: "looseTimeDecoder", Types: []reflect.Type{tTime}, Received: val}
	}
	s, err := vr.ReadString()
	if err != nil {
		return err
	}
	val.Set(reflect.ValueOf(parseLooseTime(s)))
	return nil
}

func parseLooseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	// Date.toString() 末尾带 "(China Standard Time)" 之类的时区名
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range looseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func collection(db *mongo.Database, name string) *mongo.Collection {
	return db.Collection(name, options.Collection().SetRegistry(Registry))
}

func newPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: collection(db, PostCollection)}
}

func newRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{coll: collection(db, RequestCollection)}
}
