package store

import (
	"context"
	"testing"
	"time"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load without document is empty", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mt.DB.Name(), "outfits")
		ns := mt.DB.Name() + "." + outfitsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		outfits, err := s.Load(context.Background())
		require.NoError(mt, err)
		assert.Empty(mt, outfits)
	})

	mt.Run("load decodes the stored list", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mt.DB.Name(), "outfits")
		ns := mt.DB.Name() + "." + outfitsCollection
		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "outfits"},
			{Key: "outfits", Value: bson.A{
				bson.D{
					{Key: "id", Value: "b"},
					{Key: "image_url", Value: "generated/b.png"},
					{Key: "garments", Value: bson.A{
						bson.D{{Key: "id", Value: "hat"}, {Key: "name", Value: "Hat"}, {Key: "url", Value: "hat.png"}, {Key: "category", Value: "accessory"}},
					}},
					{Key: "created_at", Value: created},
				},
				bson.D{{Key: "id", Value: "a"}, {Key: "image_url", Value: "generated/a.png"}},
			}},
		}))

		outfits, err := s.Load(context.Background())
		require.NoError(mt, err)
		require.Len(mt, outfits, 2)
		assert.Equal(mt, "b", outfits[0].ID)
		assert.Equal(mt, models.CategoryAccessory, outfits[0].Garments[0].Category)
		assert.True(mt, created.Equal(outfits[0].CreatedAt))
		assert.Equal(mt, "a", outfits[1].ID)
	})

	mt.Run("save upserts the list", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mt.DB.Name(), "outfits")
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "outfits"}}}},
		))

		err := s.Save(context.Background(), []models.SavedOutfit{{ID: "a", ImageURL: "generated/a.png"}})
		require.NoError(mt, err)
	})

	mt.Run("save reports server errors", func(mt *mtest.T) {
		s := NewMongoStore(mt.Client, mt.DB.Name(), "outfits")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		err := s.Save(context.Background(), nil)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to write saved outfits")
	})
}
