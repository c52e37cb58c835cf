package locale

import "fmt"

type Message int

const (
	SystemName Message = iota
	SelectLanguage
	SelectMethod
	MethodMonteCarlo
	MethodSeries
	SelectPrecision
	EnterSamples
	ResultLabel
	ReferenceLabel
	AbsErrorLabel
	AccurateDigitsLabel
	ElapsedLabel
	EngineLabel
	InvalidChoice
	Done
	ErrorPrefix
)

// T returns the text of m in locale l.
func (l Locale) T(m Message) string {
	switch l {
	case Chinese:
		return chinese(m)
	case English:
		return english(m)
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

func chinese(m Message) string {
	switch m {
	case SystemName:
		return "=== π性能计算系统 ==="
	case SelectLanguage:
		return "请选择语言"
	case SelectMethod:
		return "选择计算方法"
	case MethodMonteCarlo:
		return "蒙特卡洛方法"
	case MethodSeries:
		return "尼拉坎萨级数"
	case SelectPrecision:
		return "请选择计算精度"
	case EnterSamples:
		return "输入蒙特卡洛样本数"
	case ResultLabel:
		return "计算结果"
	case ReferenceLabel:
		return "实际PI值"
	case AbsErrorLabel:
		return "绝对误差"
	case AccurateDigitsLabel:
		return "正确位数"
	case ElapsedLabel:
		return "计算耗时"
	case EngineLabel:
		return "计算引擎"
	case InvalidChoice:
		return "无效选择！"
	case Done:
		return "计算完成！"
	case ErrorPrefix:
		return "错误"
	}
	panic(fmt.Sprintf("locale: unknown message %d", int(m)))
}

func english(m Message) string {
	switch m {
	case SystemName:
		return "=== π Performance Computing System ==="
	case SelectLanguage:
		return "Select language"
	case SelectMethod:
		return "Select computation method"
	case MethodMonteCarlo:
		return "Monte Carlo sampling"
	case MethodSeries:
		return "Nilakantha series"
	case SelectPrecision:
		return "Select precision"
	case EnterSamples:
		return "Enter Monte Carlo sample count"
	case ResultLabel:
		return "Result"
	case ReferenceLabel:
		return "Actual π"
	case AbsErrorLabel:
		return "Absolute error"
	case AccurateDigitsLabel:
		return "Correct digits"
	case ElapsedLabel:
		return "Elapsed"
	case EngineLabel:
		return "Engine"
	case InvalidChoice:
		return "Invalid choice!"
	case Done:
		return "Calculation completed!"
	case ErrorPrefix:
		return "Error"
	}
	panic(fmt.Sprintf("locale: unknown message %d", int(m)))
}

// Header is the first line of a report for a digit count.
func (l Locale) Header(digits int) string {
	switch l {
	case Chinese:
		return fmt.Sprintf("精确到 %d 位的π值:", digits)
	case English:
		return fmt.Sprintf("π to %d digits:", digits)
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

// TierLabel names a digit tier in the precision menu.
func (l Locale) TierLabel(digits int) string {
	switch l {
	case Chinese:
		return fmt.Sprintf("%d位", digits)
	case English:
		return fmt.Sprintf("%d digits", digits)
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

// ReportFilename is the report file name used for l.
func (l Locale) ReportFilename() string {
	switch l {
	case Chinese:
		return "π计算结果.txt"
	case English:
		return "pi_result.txt"
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}
