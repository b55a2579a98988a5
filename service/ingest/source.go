/*
 * @module service/ingest/source
 * @description 表格数据源抽象，提供分隔文本（CSV）与电子表格（XLSX）两种读取实现
 * @architecture 策略模式 - 按文件扩展名选择数据源实现
 * @documentReference dev_docs/requirements.md
 * @stateFlow 原始字节流 -> 编码转换 -> 表头+数据行
 * @rules 数据源只负责还原出字符串表格，不做任何字段语义解析
 * @dependencies encoding/csv, golang.org/x/text/encoding/korean, github.com/xuri/excelize/v2
 * @refs service/ingest/normalizer.go
 */

package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// TableSource 表格数据源，返回表头与全部数据行（均为未解析的字符串）
type TableSource interface {
	Read(r io.Reader) (header []string, rows [][]string, err error)
}

// SourceFor 按文件名选择数据源实现。xlsx/xls走电子表格读取，其余按分隔文本处理。
// sheet 仅对电子表格生效，为空时取首个工作表。
func SourceFor(filename, sheet string) TableSource {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return &SpreadsheetSource{Sheet: sheet}
	default:
		return &DelimitedSource{}
	}
}

// DelimitedSource 分隔文本数据源，支持逗号/分号分隔，UTF-8或EUC-KR编码
type DelimitedSource struct{}

// Read 读取分隔文本。先做编码识别（韩文旧系统导出常见EUC-KR），
// 再按表头行嗅探分隔符，最后整体解析。
func (s *DelimitedSource) Read(r io.Reader) ([]string, [][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("读取文件内容失败: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("文件内容为空")
	}

	raw = decodeCharset(raw)
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = sniffDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("解析分隔文本失败: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("文件不包含任何数据行")
	}

	return records[0], records[1:], nil
}

// decodeCharset 非法UTF-8时按EUC-KR转码，转码失败则原样返回
func decodeCharset(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return raw
	}
	return decoded
}

// sniffDelimiter 按首行中分号与逗号的出现次数选择分隔符
func sniffDelimiter(raw []byte) rune {
	line := raw
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		line = raw[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// SpreadsheetSource 电子表格数据源，按工作表名读取
type SpreadsheetSource struct {
	Sheet string // 为空时取第一个工作表
}

// Read 读取XLSX工作表，首行为表头
func (s *SpreadsheetSource) Read(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("打开电子表格失败: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("工作表 %s 不包含任何数据行", sheet)
	}

	return records[0], records[1:], nil
}
