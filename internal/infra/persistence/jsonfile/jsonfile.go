package jsonfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Write 以 2 空格缩进写出 UTF-8 JSON,非 ASCII 字符与 HTML 字符原样保留
func Write[T any](path string, v T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("写入 JSON 失败: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("关闭文件失败: %w", err)
	}
	return nil
}

// Save 写出记录,失败只记录日志;返回是否写入成功
func Save[T any](path string, records []T, logger *log.Logger) bool {
	if err := Write(path, records); err != nil {
		logger.Error("保存 JSON 失败", "path", path, "err", err)
		return false
	}
	logger.Info("已保存结果", "path", path, "records", len(records))
	return true
}
