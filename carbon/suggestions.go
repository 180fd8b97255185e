package carbon

// Suggestion is a group of reduction actions.
type Suggestion struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Suggestions returns reduction advice for a footprint. Electricity advice
// comes first when Scope 2 dominates; long-term targets are always included.
func Suggestions(f Footprint) []Suggestion {
	var out []Suggestion
	if f.Scope2 > f.Scope1 {
		out = append(out, Suggestion{
			Title: "電力使用優化建議",
			Items: []string{
				"更換LED燈具，節省用電20-30%",
				"導入智慧電表，監控用電狀況",
				"改善空調系統效率，降低用電量",
				"考慮採購再生能源，降低範疇二排放",
			},
		})
	}
	if f.Scope1 > 0 {
		out = append(out, Suggestion{
			Title: "直接排放優化建議",
			Items: []string{
				"改用低排放燃料（如天然氣替代柴油）",
				"改善設備效率，降低燃料使用量",
				"考慮使用電動車輛，減少燃料消耗",
				"定期維護設備，確保最佳運轉效率",
			},
		})
	}
	out = append(out, Suggestion{
		Title: "長期減碳目標",
		Items: []string{
			"設定年度減碳目標（建議5-10%）",
			"建立碳盤查年度報告機制",
			"追蹤減碳進度，定期檢討改善",
			"申請碳權認證，建立碳資產管理",
		},
	})
	return out
}
