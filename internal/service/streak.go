package service

import "time"

// nextStreak 根据上一次活跃日期推进连续学习天数。
// 同一自然日内的多次活动不改变计数；恰好隔一天则 +1；
// 断档超过一天或从未活跃则重置为 1。longest 为高水位，只升不降。
// 必须用覆盖前的 lastActivityDate 计算，调用方负责在行锁事务内读旧值。
func nextStreak(last *time.Time, now time.Time, current, longest int) (int, int) {
	if last == nil {
		current = 1
	} else {
		switch daysBetween(*last, now) {
		case 0:
			// 同日重复活动，不变
		case 1:
			current++
		default:
			current = 1
		}
	}
	if current < 1 {
		current = 1
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

// daysBetween 按自然日计算跨度，忽略时分秒
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(t.Sub(f).Hours() / 24)
}
