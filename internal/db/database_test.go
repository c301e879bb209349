package db

import (
	"testing"
	"time"

	"github.com/ikkim/variant-reservation/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePool(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)

	configurePool(sqlDB, &config.DatabaseConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    7,
		ConnMaxLifetime: time.Minute,
	})

	assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
}

func TestSeedCreatesDemoProductOnce(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, seedDemoProduct(testDB))
	require.NoError(t, seedDemoProduct(testDB))

	var products, variants int64
	require.NoError(t, testDB.Table("products").Count(&products).Error)
	require.NoError(t, testDB.Table("variants").Count(&variants).Error)
	assert.Equal(t, int64(1), products)
	assert.Equal(t, int64(4), variants)
}
