/*
 * @module service/export/csv_export_test
 * @description CSV导出单元测试，覆盖规范表头写出与导出-再导入回环
 * @architecture 测试层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 记录集 -> CSV写出 -> 重新导入 -> 等值断言
 * @rules 导出的CSV经规范化器重新导入后必须还原出相同的记录集
 * @dependencies testing, testify
 * @refs csv_export.go, service/ingest
 */

package export

import (
	"bytes"
	"strings"
	"testing"

	"annotation-metrics-service/service/ingest"
	"annotation-metrics-service/service/models"
	"annotation-metrics-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_CanonicalHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(ExportHeader, ","), strings.TrimRight(firstLine, "\r"))
}

func TestWriteCSV_NullDatesAsEmpty(t *testing.T) {
	records := []models.TaskRecord{
		testutil.NewTaskRecord("TASK0001", testutil.WithWorkDate(nil), testutil.WithReviewDate(nil)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",,")
}

func TestWriteCSV_RoundTripThroughNormalizer(t *testing.T) {
	records := []models.TaskRecord{
		testutil.NewTaskRecord("TASK0001"),
		testutil.NewTaskRecord("TASK0002",
			testutil.WithReviewDate(nil),
			testutil.WithCounts(7, 6, 2),
			testutil.WithMinutes(45)),
		testutil.NewTaskRecord("TASK0003", testutil.WithWorkDate(nil)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	source := &ingest.DelimitedSource{}
	header, rows, err := source.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	normalizer := ingest.NewNormalizer(nil)
	reimported, summary, err := normalizer.Normalize(header, rows)
	require.NoError(t, err)

	assert.Equal(t, records, reimported)
	assert.Equal(t, 0, summary.CoercedFields)
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename(testutil.Date(2025, 8, 14))
	assert.Equal(t, "annotation_data_20250814_000000.csv", name)
}
