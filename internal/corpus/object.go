package corpus

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"batch-bench/internal/store"
)

// DefaultDatacenter は生成時のデータセンター名
const DefaultDatacenter = "foo"

// Placement はオブジェクトのコピーの所在（データセンターとストレージノード）
type Placement struct {
	Datacenter     string `json:"datacenter"`
	MantaStorageID string `json:"manta_storage_id"`
}

// StorageID はストレージノード番号からIDを作る
func StorageID(n int) string {
	return fmt.Sprintf("%d.stor.domain", n)
}

// Object はMantaオブジェクトのメタデータ
type Object struct {
	Headers       map[string]string `json:"headers"`
	Key           string            `json:"key"`
	Mtime         int64             `json:"mtime"`
	Name          string            `json:"name"`
	Creator       string            `json:"creator"`
	Dirname       string            `json:"dirname"`
	Owner         string            `json:"owner"`
	Roles         []string          `json:"roles"`
	Type          string            `json:"type"`
	Vnode         uint64            `json:"vnode"`
	ContentLength uint64            `json:"contentLength"`
	ContentMD5    string            `json:"contentMD5"`
	ContentType   string            `json:"contentType"`
	Etag          string            `json:"etag"`
	ObjectID      string            `json:"objectId"`
	Sharks        []Placement       `json:"sharks"`
}

// Clone は共有部分を持たないコピーを返す
func (o Object) Clone() Object {
	c := o
	c.Headers = maps.Clone(o.Headers)
	c.Roles = slices.Clone(o.Roles)
	c.Sharks = slices.Clone(o.Sharks)
	return c
}

// Corpus はオブジェクトIDをキーとするオブジェクトの集合
type Corpus map[string]Object

// Values はシリアライズ済みのオブジェクトの集合（書き込みはこの形式のみを使う）
type Values map[string]store.Value

// Serialize はオブジェクトを汎用の値に変換する
func Serialize(o Object) (store.Value, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshal object %s: %w", o.ObjectID, err)
	}
	var v store.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal object %s: %w", o.ObjectID, err)
	}
	return v, nil
}

// Serialize は変更なしで全オブジェクトをシリアライズする
func (c Corpus) Serialize() (Values, error) {
	values := make(Values, len(c))
	for k, o := range c {
		v, err := Serialize(o)
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, nil
}
