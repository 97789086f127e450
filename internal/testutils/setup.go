package testutils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store/jsonstore"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

// NewJSONStore 在临时目录里建一个 json 文件存储，测试结束后随目录一起清理。
func NewJSONStore(t *testing.T) *jsonstore.JSONStore {
	t.Helper()

	st, err := jsonstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("创建 json 存储失败: %v", err)
	}
	return st
}

// SetupDB initializes a unique in-memory SQLite database for testing
// and performs auto-migration.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:agemas_%d?mode=memory&cache=shared", seq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := gdb.AutoMigrate(&model.User{}, &model.Post{}, &model.Reply{}, &model.AuditLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return gdb
}
