package corpus

import (
	"encoding/base64"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var contentTypes = []string{
	"application/octet-stream",
	"application/json",
	"text/plain",
	"image/png",
}

// RandomString は英数字のランダム文字列を返す
func RandomString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return string(b)
}

// Generator はランダムなオブジェクトを生成する
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator は新しいGeneratorを作成する
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng: rng,
		now: time.Now,
	}
}

// Generate はちょうどn個のオブジェクトを持つCorpusを返す
func (g *Generator) Generate(n int) Corpus {
	c := make(Corpus, n)
	for j := 0; j < n; j++ {
		o := g.Object()
		o.Sharks = g.placements()
		// IDが衝突した場合は上書き（IDの空間はnに比べて十分広い）
		c[o.ObjectID] = o
	}
	return c
}

// placements は2パスでストレージノードを選ぶ
// 1パス目は {1,2}、2パス目は {3,4} から1つ
func (g *Generator) placements() []Placement {
	sharks := make([]Placement, 0, 2)
	for i := 0; i < 2; i++ {
		n := 1 + i*2 + g.rng.Intn(2)
		sharks = append(sharks, Placement{
			Datacenter:     DefaultDatacenter,
			MantaStorageID: StorageID(n),
		})
	}
	return sharks
}

// Object は構造的に正しいランダムなオブジェクトを1つ返す（配置は空）
func (g *Generator) Object() Object {
	owner := g.uuid()
	objectID := g.uuid()
	dirname := "/" + owner + "/stor/" + RandomString(g.rng, 8)
	name := RandomString(g.rng, 12)

	md5 := make([]byte, 16)
	_, _ = g.rng.Read(md5)

	headers := make(map[string]string)
	for j, cnt := 0, g.rng.Intn(3); j < cnt; j++ {
		headers["m-"+RandomString(g.rng, 6)] = RandomString(g.rng, 10)
	}

	year := int64(365 * 24 * time.Hour / time.Millisecond)
	return Object{
		Headers:       headers,
		Key:           dirname + "/" + name,
		Mtime:         g.now().UnixMilli() - g.rng.Int63n(year),
		Name:          name,
		Creator:       owner,
		Dirname:       dirname,
		Owner:         owner,
		Roles:         []string{},
		Type:          "object",
		Vnode:         uint64(g.rng.Intn(1 << 20)),
		ContentLength: uint64(g.rng.Int63n(1 << 31)),
		ContentMD5:    base64.StdEncoding.EncodeToString(md5),
		ContentType:   contentTypes[g.rng.Intn(len(contentTypes))],
		Etag:          objectID,
		ObjectID:      objectID,
		Sharks:        []Placement{},
	}
}

func (g *Generator) uuid() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// math/rand の Read は失敗しない
		panic(err)
	}
	return id.String()
}
