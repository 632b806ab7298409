// Package harness は書き込みベンチマークの一連の流れを実行する。
//
// Engineはシャードを発見して接続し、バケットを用意し、コーパスを生成してから
// 計画（Plan）に従って逐次書き込みとバッチ書き込みのパスを順に実行する。
// 各パスの前にはコーパスの新しい変更コピーが作られる。
//
// # 状態遷移
//
//	Discover → ClientReady → BucketEnsured → CorpusReady → Seeded → Pass(1..n) → Done
//
// Seededはシードパスが有効な場合のみ通過する。
//
// # プリセット
//
// - default: 逐次→バッチ、バッチ→逐次の4パス
// - sequential: 逐次書き込みのみ
// - batch: バッチ書き込みのみ
// - flush: 残りもフラッシュするバッチ計測
// - quick: 小さなコーパスでの動作確認
//
// # 使用例
//
//	config := harness.DefaultConfig()
//	factory := config.Factory(nil, rand.New(rand.NewSource(1)))
//	engine := harness.New(config, factory)
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report())
package harness
