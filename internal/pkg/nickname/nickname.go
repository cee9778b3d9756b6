package nickname

import (
	"fmt"
	"math/rand"
)

var (
	adjectives = []string{
		"신나는", "졸린", "용감한", "배고픈", "반짝이는", "수줍은", "씩씩한", "느긋한",
		"재빠른", "엉뚱한", "다정한", "명랑한", "호기심많은", "똑똑한", "행복한", "당당한",
	}
	animals = []string{
		"고양이", "강아지", "펭귄", "다람쥐", "수달", "판다", "여우", "부엉이",
		"코알라", "햄스터", "고래", "토끼", "사자", "호랑이", "오리", "너구리",
	}
)

// Capacity is the number of distinct nicknames Generate can produce (16 adjectives x 16 animals x 100),
// which caps the accounts a festival can hold since nicknames are unique.
func Capacity() int {
	return len(adjectives) * len(animals) * 100
}

// Generate returns a display nickname such as "신나는펭귄07".
func Generate() (string, error) {
	adj := adjectives[rand.Intn(len(adjectives))]
	animal := animals[rand.Intn(len(animals))]

	return fmt.Sprintf("%s%s%02d", adj, animal, rand.Intn(100)), nil
}
