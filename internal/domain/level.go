package domain

const pointsPerLevel = 100

// LevelForPoints returns the level a user with the given points has reached.
// Levels start at 1 and advance every 100 points.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return points/pointsPerLevel + 1
}

// LevelProgress returns how far into the current level the given points are,
// as a percentage in [0, 100).
func LevelProgress(points int) int {
	if points < 0 {
		points = 0
	}
	return points % pointsPerLevel
}
