/*
 * @module service/session/store_test
 * @description 会话存储单元测试，覆盖创建、访问续期与TTL清扫
 * @architecture 测试层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 会话创建 -> 访问 -> 清扫 -> 结果断言
 * @rules 会话互相隔离，过期会话只能通过清扫回收
 * @dependencies testing, testify
 * @refs store.go
 */

package session

import (
	"testing"
	"time"

	"annotation-metrics-service/service/models"
	"annotation-metrics-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	records := []models.TaskRecord{testutil.NewTaskRecord("TASK0001")}
	summary := &models.IngestSummary{TotalRows: 1}

	sess := store.Put(records, summary)
	require.NotEmpty(t, sess.ID)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, records, got.Records)
	assert.Equal(t, 1, got.Summary.TotalRows)
}

func TestStore_GetUnknownSession(t *testing.T) {
	store := NewStore(time.Hour)

	_, err := store.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不存在或已过期")
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour)

	first := store.Put([]models.TaskRecord{testutil.NewTaskRecord("TASK0001")}, &models.IngestSummary{})
	second := store.Put([]models.TaskRecord{testutil.NewTaskRecord("TASK0002")}, &models.IngestSummary{})

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, store.Len())

	got, err := store.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "TASK0002", got.Records[0].TaskID)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour)

	sess := store.Put(nil, &models.IngestSummary{})
	store.Delete(sess.ID)

	_, err := store.Get(sess.ID)
	require.Error(t, err)
}

func TestStore_SweepRemovesExpired(t *testing.T) {
	store := NewStore(30 * time.Minute)

	expired := store.Put(nil, &models.IngestSummary{})
	fresh := store.Put(nil, &models.IngestSummary{})

	expired.lastAccess = time.Now().Add(-time.Hour)

	removed := store.Sweep()
	assert.Equal(t, 1, removed)

	_, err := store.Get(expired.ID)
	require.Error(t, err)
	_, err = store.Get(fresh.ID)
	require.NoError(t, err)
}

func TestStore_GetExtendsLifetime(t *testing.T) {
	store := NewStore(30 * time.Minute)

	sess := store.Put(nil, &models.IngestSummary{})
	sess.lastAccess = time.Now().Add(-time.Hour)

	// 访问续期后清扫不应回收
	_, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Sweep())
}
