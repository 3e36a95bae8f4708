package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/test/testutil"
)

func TestMain(m *testing.M) {
	code := func() int {
		dbCleanup, err := setupMongo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB setup failed: %v\n", err)
			return 1
		}
		defer dbCleanup()

		minioCleanup, err := setupMinIO()
		if err != nil {
			fmt.Fprintf(os.Stderr, "MinIO setup failed: %v\n", err)
			return 1
		}
		defer minioCleanup()

		redisCleanup, err := setupRedis()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Redis setup failed: %v\n", err)
			return 1
		}
		defer redisCleanup()

		return m.Run()
	}()

	os.Exit(code)
}

func setupMongo() (cleanup func(), err error) {
	if os.Getenv("TEST_MONGO_URI") != "" {
		// CI provided it; nothing to clean up
		return func() {}, nil
	}

	mc, err := testutil.StartMongoContainer()
	if err != nil {
		return nil, err
	}
	os.Setenv("TEST_MONGO_URI", mc.URI)

	return mc.Cleanup, nil
}

func setupMinIO() (cleanup func(), err error) {
	if os.Getenv("TEST_MINIO_ENDPOINT") != "" {
		return func() {}, nil
	}

	mi, err := testutil.StartMinIOContainer()
	if err != nil {
		return nil, err
	}
	os.Setenv("TEST_MINIO_ENDPOINT", mi.Endpoint)
	os.Setenv("TEST_MINIO_ACCESS_KEY", testutil.MinioRootUser)
	os.Setenv("TEST_MINIO_SECRET_KEY", testutil.MinioRootPassword)

	return mi.Cleanup, nil
}

func setupRedis() (cleanup func(), err error) {
	if os.Getenv("TEST_REDIS_ADDR") != "" {
		return func() {}, nil
	}

	rc, err := testutil.StartRedisContainer()
	if err != nil {
		return nil, err
	}
	os.Setenv("TEST_REDIS_ADDR", rc.Addr)

	return rc.Cleanup, nil
}
