/*
 * @module service/ingest/normalizer_test
 * @description 规范化器单元测试，覆盖列映射、宽松转换与必需列校验
 * @architecture 测试层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 字符串表格 -> 规范化 -> 结果断言
 * @rules 覆盖静默兜底策略的计数与输入结构错误的失败路径
 * @dependencies testing, testify
 * @refs normalizer.go
 */

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var koreanHeader = []string{
	"작업ID", "프로젝트ID", "상태", "완료 오브젝트 수", "유효 오브젝트 수", "반려 횟수",
	"작업자ID", "작업자명", "검수자ID", "검수자명", "작업 완료일", "검수 완료일", "작업시간(분)",
}

func TestNormalize_KoreanHeaderMapping(t *testing.T) {
	normalizer := NewNormalizer(nil)

	rows := [][]string{
		{"TASK0001", "PRJ001", "완료", "25", "23", "1", "ANN001", "김민수", "CHK001", "이영희", "2025-08-04", "2025-08-05", "120"},
	}

	records, summary, err := normalizer.Normalize(koreanHeader, rows)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "TASK0001", rec.TaskID)
	assert.Equal(t, "PRJ001", rec.ProjectID)
	assert.Equal(t, "완료", rec.Status)
	assert.Equal(t, 25, rec.AnnotationsCompleted)
	assert.Equal(t, 23, rec.ValidCount)
	assert.Equal(t, 1, rec.ReworkRequired)
	assert.Equal(t, "김민수", rec.AnnotatorName)
	assert.Equal(t, "이영희", rec.CheckerName)
	require.NotNil(t, rec.WorkDate)
	assert.Equal(t, "2025-08-04", rec.WorkDate.Format("2006-01-02"))
	require.NotNil(t, rec.ReviewDate)
	assert.Equal(t, 120, rec.TimeSpentMinutes)

	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 0, summary.CoercedFields)
}

func TestNormalize_UnmappedColumnsDroppedAndMissingCreatedEmpty(t *testing.T) {
	normalizer := NewNormalizer(nil)

	// 只有必需列 + 一个未映射列，其余期望列缺失按空值补齐
	header := []string{"작업ID", "작업 완료일", "내부메모"}
	rows := [][]string{{"TASK0001", "2025-08-04", "무시되는 값"}}

	records, _, err := normalizer.Normalize(header, rows)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "", records[0].ProjectID)
	assert.Equal(t, 0, records[0].AnnotationsCompleted)
	assert.Nil(t, records[0].ReviewDate)
}

func TestNormalize_MissingRequiredColumnFails(t *testing.T) {
	normalizer := NewNormalizer(nil)

	header := []string{"프로젝트ID", "상태"}
	_, _, err := normalizer.Normalize(header, [][]string{{"PRJ001", "완료"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "缺少必需列")
}

func TestNormalize_ValueCoercion(t *testing.T) {
	normalizer := NewNormalizer(nil)

	tests := []struct {
		name          string
		completed     string
		workDate      string
		wantCompleted int
		wantNullDate  bool
		wantCoerced   int
	}{
		{"正常值", "25", "2025-08-04", 25, false, 0},
		{"非法数字兜底为0并计数", "abc", "2025-08-04", 0, false, 1},
		{"空数字为0不计数", "", "2025-08-04", 0, false, 0},
		{"负数截断为0", "-3", "2025-08-04", 0, false, 0},
		{"非法日期置null并计数", "25", "날짜아님", 25, true, 1},
		{"空日期置null不计数", "25", "", 25, true, 0},
		{"点分日期格式", "25", "2025.08.04", 25, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := []string{"작업ID", "완료 오브젝트 수", "작업 완료일"}
			records, summary, err := normalizer.Normalize(header, [][]string{{"TASK0001", tt.completed, tt.workDate}})
			require.NoError(t, err)
			require.Len(t, records, 1)

			assert.Equal(t, tt.wantCompleted, records[0].AnnotationsCompleted)
			assert.Equal(t, tt.wantNullDate, records[0].WorkDate == nil)
			assert.Equal(t, tt.wantCoerced, summary.CoercedFields)
		})
	}
}

func TestNormalize_BooleanReworkFlag(t *testing.T) {
	normalizer := NewNormalizer(nil)

	header := []string{"작업ID", "반려 횟수", "작업 완료일"}
	records, summary, err := normalizer.Normalize(header, [][]string{
		{"TASK0001", "true", "2025-08-04"},
		{"TASK0002", "N", "2025-08-04"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, records[0].ReworkRequired)
	assert.Equal(t, 0, records[1].ReworkRequired)
	assert.Equal(t, 0, summary.CoercedFields)
}

func TestNormalize_QualityWarningWhenValidExceedsCompleted(t *testing.T) {
	normalizer := NewNormalizer(nil)

	header := []string{"작업ID", "완료 오브젝트 수", "유효 오브젝트 수", "작업 완료일"}
	records, summary, err := normalizer.Normalize(header, [][]string{{"TASK0001", "5", "8", "2025-08-04"}})
	require.NoError(t, err)

	// 数据质量违规只产生警告，行照常通过流水线
	require.Len(t, records, 1)
	require.Len(t, summary.QualityWarnings, 1)
	assert.Contains(t, summary.QualityWarnings[0], "TASK0001")
}

func TestNormalize_NullWorkDateCounted(t *testing.T) {
	normalizer := NewNormalizer(nil)

	header := []string{"작업ID", "작업 완료일"}
	_, summary, err := normalizer.Normalize(header, [][]string{
		{"TASK0001", "2025-08-04"},
		{"TASK0002", ""},
		{"TASK0003", "not-a-date"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.NullWorkDates)
}

func TestNormalize_CustomMapping(t *testing.T) {
	normalizer := NewNormalizer(map[string]string{
		"Task":     FieldTaskID,
		"Done":     FieldAnnotationsCompleted,
		"WorkedAt": FieldWorkDate,
	})

	records, _, err := normalizer.Normalize(
		[]string{"Task", "Done", "WorkedAt"},
		[][]string{{"T1", "3", "2025-08-04"}},
	)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "T1", records[0].TaskID)
	assert.Equal(t, 3, records[0].AnnotationsCompleted)
}
