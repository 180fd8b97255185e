package rubric

// Suggestion describes how to improve one rubric question.
type Suggestion struct {
	Title   string   `json:"title"`
	Hint    string   `json:"hint"`
	Actions []string `json:"actions"`
}

var suggestions = map[string]Suggestion{
	"E1": {
		Title: "碳管理意識與盤查",
		Hint:  "完成範疇一、二碳盤查並設定減碳目標",
		Actions: []string{
			"使用輔導平台的「簡易碳盤查工具」，5分鐘完成基本計算",
			"下載免費的「中小企業碳盤查指南」，了解範疇一、二的定義",
			"聯絡我行永續金融顧問，預約免費諮詢服務",
		},
	},
	"E2": {
		Title: "能源效率與節約行動",
		Hint:  "更新主要設備或全面更換 LED 照明",
		Actions: []string{
			"申請政府補助：「中小企業節能補助計畫」最高補助50%",
			"下載「能源效率改善標準作業流程」範本",
			"聯絡合作廠商進行免費能耗診斷",
		},
	},
	"E3": {
		Title: "廢棄物與水資源管理",
		Hint:  "制定廢棄物減量目標並建立水資源管理",
		Actions: []string{
			"建立廢棄物分類管理制度，參考「廢棄物減量推動指南」",
			"評估導入雨水回收或廢水再利用的可行性",
			"定期進行廢棄物稽核，記錄減量成果",
		},
	},
	"E4": {
		Title: "無環境污染裁罰",
		Hint:  "確保近年無環保相關裁罰紀錄",
		Actions: []string{
			"定期檢視空污、水污及廢棄物申報是否符合環保法規",
			"針對過去裁罰事項建立改善紀錄與追蹤機制",
			"指派專人負責環保法規更新與內部宣導",
		},
	},
	"E5": {
		Title: "綠能建置投資",
		Hint:  "建置太陽能等再生能源設備或採購綠電",
		Actions: []string{
			"評估廠房屋頂設置太陽能板的可行性",
			"洽詢綠電交易平台，採購再生能源憑證",
			"申請我行綠色融資，降低綠能設備建置成本",
		},
	},
	"E6": {
		Title: "廢棄物資源循環利用",
		Hint:  "建立廢棄物資源化或再利用流程",
		Actions: []string{
			"盤點可回收再利用的製程廢料與包材",
			"與合格再利用機構簽訂資源化合作契約",
			"設定年度資源回收率目標並定期追蹤",
		},
	},
	"S1": {
		Title: "員工培訓與職涯發展",
		Hint:  "建立年度人才培訓計畫（人均15小時以上）",
		Actions: []string{
			"制定年度人才培訓計畫，目標：每名員工至少15小時",
			"利用「輔導平台」的免費培訓課程資源庫",
			"參與政府補助的專業人才培訓課程",
		},
	},
	"S2": {
		Title: "員工福利與友善職場",
		Hint:  "提供優於法規的員工福利",
		Actions: []string{
			"檢視現有福利政策，對標業界最佳實踐",
			"考慮提供優於法規的福利：彈性工時、育嬰假延長等",
			"建立員工健康檢查制度，每年至少一次",
		},
	},
	"S3": {
		Title: "供應鏈管理（初階）",
		Hint:  "要求主要供應商簽署永續承諾書",
		Actions: []string{
			"下載「供應商人權與永續承諾書」範本",
			"與主要供應商簽署合作協議，納入ESG條款",
			"定期進行供應商評估，鼓勵改善",
		},
	},
	"S4": {
		Title: "當地社會參與",
		Hint:  "建立年度社區回饋或公益活動",
		Actions: []string{
			"制定年度社區回饋計畫，如志工服務或在地採購",
			"參與當地商業公會或社區活動",
			"與NGO合作，支持弱勢族群或環保項目",
		},
	},
	"S5": {
		Title: "投資ESG綠色金融商品",
		Hint:  "配置部分資金於綠色或永續金融商品",
		Actions: []string{
			"了解我行綠色存款與永續債券等商品",
			"將閒置資金部分配置於ESG主題基金",
			"於年度報告中揭露永續投資比例",
		},
	},
	"G1": {
		Title: "永續專責組織與承諾",
		Hint:  "指派高階主管為 ESG 負責人",
		Actions: []string{
			"指派高階主管（或董事）為ESG負責人",
			"成立跨部門的永續委員會，明確訂定職責",
			"定期召開會議，追蹤ESG目標進度",
		},
	},
	"G2": {
		Title: "法規遵循紀錄",
		Hint:  "確保過去3年無重大違規紀錄",
		Actions: []string{
			"定期自行檢查是否符合環保、勞工等相關法規",
			"建立合規監測制度，及時排除隱患",
			"若有過去違規，請完整記錄改善過程，提交改善證明",
		},
	},
	"G3": {
		Title: "誠信經營與風險管理",
		Hint:  "將誠信經營規範納入公司規章",
		Actions: []string{
			"將誠信經營政策納入公司規章或員工守則",
			"建立舉報機制，保護檢舉者隱私",
			"定期舉辦誠信經營教育訓練",
		},
	},
	"G4": {
		Title: "持續獲利",
		Hint:  "維持近三年營運皆有盈餘",
		Actions: []string{
			"建立月度財務檢討機制，掌握獲利趨勢",
			"檢視成本結構，找出可優化的支出項目",
			"諮詢我行財務顧問，規劃營運資金",
		},
	},
	"G5": {
		Title: "董事會運作",
		Hint:  "定期召開董事會並說明財務狀況",
		Actions: []string{
			"訂定年度董事會開會時程，至少每季一次",
			"會議中報告財務與永續績效並留存紀錄",
			"邀請外部專家列席提供建議",
		},
	},
	"G6": {
		Title: "股東溝通",
		Hint:  "定期向股東說明營運狀況",
		Actions: []string{
			"每年召開股東會並說明營運與永續成果",
			"建立股東問答窗口與回覆時限",
			"於公司網站公開重大營運資訊",
		},
	},
	"G7": {
		Title: "永續報告書",
		Hint:  "編製並公開永續報告書",
		Actions: []string{
			"參考GRI準則建立報告書架構",
			"先以簡易版永續報告揭露關鍵指標",
			"使用輔導平台範本，逐年擴充揭露範圍",
		},
	},
}

// Suggestions returns the improvement suggestions for the given question
// IDs. Unknown IDs are ignored.
func Suggestions(ids []string) map[string]Suggestion {
	out := make(map[string]Suggestion, len(ids))
	for _, id := range ids {
		if s, ok := suggestions[id]; ok {
			out[id] = s
		}
	}
	return out
}

// Hint returns the one-line improvement text for a question, or the ID
// itself when the question is unknown.
func Hint(id string) string {
	if s, ok := suggestions[id]; ok {
		return s.Hint
	}
	return id
}
