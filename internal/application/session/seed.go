package session

import (
	"time"

	"github.com/bunnybakes/v1/internal/domain/community"
	"github.com/bunnybakes/v1/internal/domain/recipe"
)

// seedRecipes returns the recipe book's initial content.
func seedRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			ID:          "1",
			Title:       "草莓奶油独角兽杯子蛋糕",
			Description: "超级梦幻的粉色杯子蛋糕，顶着彩虹般的奶油霜，每一口都是幸福的味道！(≧◡≦)",
			PrepTime:    "25分钟",
			CookTime:    "20分钟",
			Difficulty:  recipe.DifficultyEasy,
			Tags:        []string{"甜点", "可爱", "派对"},
			Ingredients: []recipe.Ingredient{
				{Name: "低筋面粉", Amount: "120g"},
				{Name: "细砂糖", Amount: "80g"},
				{Name: "无盐黄油", Amount: "100g"},
				{Name: "鸡蛋", Amount: "2个"},
				{Name: "草莓果酱", Amount: "2勺"},
				{Name: "淡奶油", Amount: "200ml"},
			},
			Steps: []recipe.Step{
				{StepNumber: 1, Instruction: "黄油软化，加糖打发至发白蓬松。"},
				{StepNumber: 2, Instruction: "分次加入蛋液，搅拌均匀后加入果酱。"},
				{StepNumber: 3, Instruction: "筛入面粉，翻拌均匀，烤箱170度烤20分钟。"},
			},
			ImageURL: "https://images.unsplash.com/photo-1599785209707-3a111453e9cb?q=80&w=600&auto=format&fit=crop",
		},
	}
}

// seedPosts returns the community feed's initial content.
func seedPosts() []community.Post {
	now := time.Now().UnixMilli()
	return []community.Post{
		{
			ID:         "101",
			UserID:     "u1",
			UserName:   "小熊面包师",
			UserAvatar: "🐻",
			Image:      "https://images.unsplash.com/photo-1579372786545-d24232daf58c?auto=format&fit=crop&w=600&q=80",
			Caption:    "今天试做了全麦面包，超级香！大家记得多发酵一会儿哦~ 🍞",
			Likes:      42,
			IsLiked:    false,
			Timestamp:  now - time.Hour.Milliseconds(),
		},
		{
			ID:                "102",
			UserID:            "u2",
			UserName:          "甜点爱丽丝",
			UserAvatar:        "🎀",
			Image:             "https://images.unsplash.com/photo-1563729784474-d77dbb933a9e?auto=format&fit=crop&w=600&q=80",
			Caption:           "按照 Bunny 的食谱做的杯子蛋糕，太可爱了！孩子们超喜欢！",
			Likes:             128,
			IsLiked:           true,
			Timestamp:         now - (24 * time.Hour).Milliseconds(),
			LinkedRecipeID:    "1",
			LinkedRecipeTitle: "草莓奶油独角兽杯子蛋糕",
		},
	}
}
