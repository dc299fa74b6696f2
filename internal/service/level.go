package service

import "math"

// 等级曲线：level = floor(sqrt(totalXP/100)) + 1。
// 单调、可反推，等级相关的展示和徽章触发统一用这一条曲线。
// 1级 0xp 起步，2级 100xp，3级 400xp，4级 900xp，以此类推。

const levelCurveBase = 100

// levelUpCoins 每升一级的货币奖励
const levelUpCoins = 50

// LevelForXP 总经验对应的等级，恒 >= 1
func LevelForXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(totalXP)/levelCurveBase)) + 1
}

// XPForLevel 升到指定等级所需的总经验（LevelForXP 的反函数下界）
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return levelCurveBase * n * n
}

// ProgressToNextLevel 当前等级内的进度百分比，封顶 100
func ProgressToNextLevel(totalXP int) int {
	level := LevelForXP(totalXP)
	floor := XPForLevel(level)
	ceil := XPForLevel(level + 1)
	if ceil <= floor {
		return 100
	}
	pct := int(math.Round(float64(totalXP-floor) / float64(ceil-floor) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
