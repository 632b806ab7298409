package corpus

import (
	"math"
	"math/rand"

	"batch-bench/internal/logger"
)

// Alteration は1回の変更で全オブジェクトに共通する新しい配置
type Alteration struct {
	Datacenter string
	StorageID  uint16
}

// Placement は変更で追加される配置を返す
func (a Alteration) Placement() Placement {
	return Placement{
		Datacenter:     a.Datacenter,
		MantaStorageID: StorageID(int(a.StorageID)),
	}
}

// Mutator はパスごとに内容の異なるペイロードを作る
type Mutator struct {
	rng *rand.Rand
}

// NewMutator は新しいMutatorを作成する
func NewMutator(rng *rand.Rand) *Mutator {
	return &Mutator{rng: rng}
}

// Mutate は入力を変更せずに、全オブジェクトの配置を移動したシリアライズ済みコピーを返す
func (m *Mutator) Mutate(c Corpus) (Values, Alteration, error) {
	alt := Alteration{
		Datacenter: RandomString(m.rng, 10),
		StorageID:  uint16(m.rng.Intn(math.MaxUint16 + 1)),
	}
	logger.Info("corpus", "Altering objects. datacenter: %s | storage id: %d", alt.Datacenter, alt.StorageID)

	values := make(Values, len(c))
	for k, o := range c {
		moved := o.Clone()
		if n := len(moved.Sharks); n > 0 {
			moved.Sharks = moved.Sharks[:n-1]
		}
		moved.Sharks = append(moved.Sharks, alt.Placement())

		v, err := Serialize(moved)
		if err != nil {
			return nil, alt, err
		}
		values[k] = v
	}
	return values, alt, nil
}
