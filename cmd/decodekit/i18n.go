// Package main provides localization for the decodekit CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Decode AV1, HEVC and VP9 video through one uniform interface.": "AV1・HEVC・VP9動画を統一インターフェースでデコードします。",

		// Decode command
		"Decode a video file into raw frames.": "動画ファイルを生フレームにデコード",
		"Decoding %s...":                       "%s をデコード中...",
		"Output saved to %s":                   "出力を %s に保存しました",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"Interrupted, shutting down...":        "中断されました。終了しています...",

		// Probe command
		"Inspect a video file without decoding it.": "デコードせずに動画ファイルを調査",
		"Codec: %s":             "コーデック: %s",
		"Container: %s":         "コンテナ: %s",
		"Access units: %d":      "アクセスユニット数: %d",
		"Configuration blobs: %d": "設定データ数: %d",
		"Key frames: %d":        "キーフレーム数: %d",
		"Probe completed":       "調査が完了しました",

		// Compare command
		"Render two inputs side by side for comparison.": "2つの入力を並べて比較画像を作成",
		"Comparison saved to %s":                         "比較画像を %s に保存しました",

		// Version command
		"Show version information.": "バージョン情報を表示",
		"decodekit version %s":      "decodekit バージョン %s",
	})
}
