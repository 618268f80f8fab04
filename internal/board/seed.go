package board

import "time"

// Default returns the seed document the web UI starts with.
func Default(now time.Time) *Document {
	readPapers := &Task{
		ID:          "task-1",
		Title:       "整理扩散模型论文清单",
		Description: "优先CVPR/NeurIPS，标注代码与数据集",
		Assignee:    "Jarvis",
		Priority:    PriorityHigh,
		Tags:        []string{"CV", "Diffusion"},
	}
	verifyUI := &Task{
		ID:          "task-2",
		Title:       "看板UI交互验证",
		Description: "确认拖拽与主题切换的体验",
		Assignee:    "Jarvis",
		Priority:    PriorityMedium,
		Tags:        []string{"Product"},
	}

	b := &Board{
		ID:   "board-1",
		Name: "Research Sprint",
		Columns: []*Column{
			{ID: ColumnTodo, Title: "待办", TaskIDs: []string{readPapers.ID}, WipLimit: 3},
			{ID: ColumnProgress, Title: "进行中", TaskIDs: []string{verifyUI.ID}, WipLimit: 3},
			{ID: ColumnReview, Title: "评审", TaskIDs: []string{}, WipLimit: 3},
			{ID: ColumnDone, Title: "完成", TaskIDs: []string{}},
		},
		Tasks: map[string]*Task{
			readPapers.ID: readPapers,
			verifyUI.ID:   verifyUI,
		},
	}

	doc := &Document{
		Projects: []*Project{{
			ID:     "project-1",
			Name:   "Jarvis Lab",
			Boards: []*Board{b},
		}},
		ActiveProjectID: "project-1",
		ActiveBoardID:   b.ID,
	}
	doc.Touch(now)
	return doc
}
