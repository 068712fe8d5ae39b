package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReportRecord 校验运行的归档记录（可选的 MySQL 存档）。
// 报告文件才是权威输出，归档只用于追溯历史运行。
type ReportRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Namespace string    `gorm:"type:varchar(64);index:idx_namespace" json:"namespace"`
	Domain    string    `gorm:"type:varchar(255)" json:"domain"`
	Passed    int       `gorm:"default:0" json:"passed"`
	Failed    int       `gorm:"default:0" json:"failed"`
	Errored   int       `gorm:"default:0" json:"errored"`
	Results   []byte    `gorm:"type:json" json:"results"` // 序列化后的 TestResult 列表
	CreatedAt time.Time `json:"createdAt"`
}

func NewReportRecord(r *Report) (*ReportRecord, error) {
	raw, err := json.Marshal(r.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report results: %w", err)
	}
	return &ReportRecord{
		Namespace: r.Namespace,
		Domain:    r.Domain,
		Passed:    r.Passed,
		Failed:    r.Failed,
		Errored:   r.Errored,
		Results:   raw,
	}, nil
}
