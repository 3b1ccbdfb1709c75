// Package recommend 从未完成的课程中随机推荐一门。
package recommend

import (
	"coursehub_backend/internal/model"
	"math/rand/v2"
)

// Rand 随机源，测试时可注入固定实现
type Rand interface {
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// Default 使用全局随机源
var Default Rand = defaultRand{}

// Pick 在 id 不属于 completedIDs 的课程中均匀选一门；没有候选时 ok=false
func Pick(courses []model.Course, completedIDs []string, rng Rand) (model.Course, bool) {
	done := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = struct{}{}
	}

	candidates := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if _, ok := done[c.ID]; !ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return model.Course{}, false
	}

	if rng == nil {
		rng = Default
	}
	return candidates[rng.IntN(len(candidates))], true
}
