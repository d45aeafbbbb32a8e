package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestIDFilter_ObjectID(t *testing.T) {
	hex := "65a1f0c2e4b0a1b2c3d4e5f6"
	oid, _ := bson.ObjectIDFromHex(hex)

	filter := idFilter(hex)

	assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, hex}}}}}, filter)
}

func TestIDFilter_PlainString(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: "P1"}}, idFilter("P1"))
}

func TestToProduct(t *testing.T) {
	p := toProduct("P1", &productDocument{
		Name:   "Soil Moisture Sensor",
		Slug:   "soil-moisture-sensor",
		Price:  4.9,
		Images: []string{"/img/sensor.png", "/img/sensor-2.png"},
	})

	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, "soil-moisture-sensor", p.Slug)
	assert.Equal(t, "/img/sensor.png", p.Image)

	bare := toProduct("P2", &productDocument{Name: "Cable"})
	assert.Empty(t, bare.Image)
}
