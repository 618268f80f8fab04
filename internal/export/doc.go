// Package export renders the derived artifacts of a sync cycle.
//
// Two files are produced in the .sync directory on every successful or
// recovered cycle:
//
//   - latest.json: the processed document, two-space indented
//   - summary.md: a markdown digest of the active board
//
// Example summary:
//
//	# Sync Summary
//	- Project: Jarvis Lab
//	- Board: Research Sprint
//	- Updated: 2026-01-15T15:04:05.000Z
//
//	## Columns
//	### 待办 (1)
//	- 整理扩散模型论文清单 @Jarvis · high
//
//	### 评审 (0)
//	- (empty)
//
// Both renderers are pure; Artifacts.Write is the only function that
// touches the filesystem.
package export
