// Package board 棋盘编解码：二维网格与扁平化存储格式之间的转换。
// 存储格式为以 "{row}_{col}" 为键的映射，空格子不写入数据库也能还原。
package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Key 生成格子键，格式为 "{row}_{col}"
func Key(row, col int) string {
	return fmt.Sprintf("%d_%d", row, col)
}

// ParseKey 解析格子键，返回行列坐标
func ParseKey(key string) (row, col int, ok bool) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}

	col, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}

	return row, col, true
}

// Encode 将二维网格编码为扁平映射
func Encode[T any](grid [][]T) map[string]T {
	m := make(map[string]T)
	for r, row := range grid {
		for c, cell := range row {
			m[Key(r, c)] = cell
		}
	}
	return m
}

// Decode 将扁平映射还原为 rows x cols 的二维网格，缺失的格子填充empty
func Decode[T any](m map[string]T, rows, cols int, empty T) [][]T {
	grid := make([][]T, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]T, cols)
		for c := 0; c < cols; c++ {
			grid[r][c] = empty
		}
	}

	for key, cell := range m {
		r, c, ok := ParseKey(key)
		if !ok || r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}
		grid[r][c] = cell
	}

	return grid
}

// DecodeStrings 从JSON反序列化后的任意值还原字符串网格。
// 同时接受扁平映射和旧版的稠密二维数组（历史数据存量，永久兼容）。
func DecodeStrings(v interface{}, rows, cols int, empty string) [][]string {
	grid := make([][]string, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			grid[r][c] = empty
		}
	}

	switch raw := v.(type) {
	case map[string]interface{}:
		for key, cell := range raw {
			r, c, ok := ParseKey(key)
			if !ok || r < 0 || r >= rows || c < 0 || c >= cols {
				continue
			}
			if s, ok := cell.(string); ok {
				grid[r][c] = s
			}
		}
	case map[string]string:
		for key, cell := range raw {
			r, c, ok := ParseKey(key)
			if !ok || r < 0 || r >= rows || c < 0 || c >= cols {
				continue
			}
			grid[r][c] = cell
		}
	case []interface{}:
		// 旧版稠密数组格式
		for r, rowVal := range raw {
			if r >= rows {
				break
			}
			cells, ok := rowVal.([]interface{})
			if !ok {
				continue
			}
			for c, cell := range cells {
				if c >= cols {
					break
				}
				if s, ok := cell.(string); ok {
					grid[r][c] = s
				}
			}
		}
	}

	return grid
}

// EncodeStrings 将字符串网格编码为存储用的interface{}映射
func EncodeStrings(grid [][]string) map[string]interface{} {
	m := make(map[string]interface{})
	for r, row := range grid {
		for c, cell := range row {
			m[Key(r, c)] = cell
		}
	}
	return m
}
