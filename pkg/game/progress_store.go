package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ProgressRecord 跨局累计的游戏进度
type ProgressRecord struct {
	BestDay     int `yaml:"bestDay"`     // 到达的最远天数
	TotalKills  int `yaml:"totalKills"`  // 累计击杀
	Wins        int `yaml:"wins"`        // 胜利局数
	GamesPlayed int `yaml:"gamesPlayed"` // 已结束的局数
}

// ProgressStore 进度存储
// 负责进度记录的加载、保存和内存管理
type ProgressStore struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	record       *ProgressRecord
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "record"
)

// NewProgressStore 创建进度存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存记录）
//
// 加载失败不是致命错误，使用空记录
func NewProgressStore(gdataManager *gdata.Manager) *ProgressStore {
	ps := &ProgressStore{
		gdataManager: gdataManager,
		record:       &ProgressRecord{},
	}
	if err := ps.Load(); err != nil {
		log.Printf("[ProgressStore] Warning: Failed to load progress: %v (starting fresh)", err)
	}
	return ps
}

// Load 从 gdata 加载进度
func (ps *ProgressStore) Load() error {
	if ps.gdataManager == nil {
		ps.record = &ProgressRecord{}
		return nil
	}

	if !ps.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		ps.record = &ProgressRecord{}
		return nil
	}

	data, err := ps.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		ps.record = &ProgressRecord{}
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded ProgressRecord
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		ps.record = &ProgressRecord{}
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	ps.record = &loaded
	return nil
}

// Save 保存进度到 gdata，降级模式下为空操作
func (ps *ProgressStore) Save() error {
	if ps.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(ps.record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := ps.gdataManager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	log.Printf("[ProgressStore] Progress saved (bestDay=%d, kills=%d, wins=%d)", ps.record.BestDay, ps.record.TotalKills, ps.record.Wins)
	return nil
}

// Record 返回当前进度记录
func (ps *ProgressStore) Record() ProgressRecord {
	return *ps.record
}

// RecordGame 合并一局的结果并保存
// 参数：
//   - day: 本局到达的天数
//   - kills: 本局击杀数
//   - won: 是否胜利
func (ps *ProgressStore) RecordGame(day, kills int, won bool) error {
	if day > ps.record.BestDay {
		ps.record.BestDay = day
	}
	if kills > 0 {
		ps.record.TotalKills += kills
	}
	if won {
		ps.record.Wins++
	}
	ps.record.GamesPlayed++
	return ps.Save()
}
