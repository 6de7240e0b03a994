package models

// SP500Universe is the fixed symbol universe the analyzer ranks over
// (top 100 S&P 500 constituents by weight). Order matters: the ranking
// engine processes a configured prefix of this list.
var SP500Universe = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "BRK-B", "LLY", "TSLA", "V",
	"UNH", "XOM", "JNJ", "JPM", "PG", "MA", "HD", "CVX", "MRK", "ABBV",
	"PEP", "KO", "AVGO", "PFE", "TMO", "COST", "DHR", "ACN", "WMT", "MCD",
	"NEE", "NKE", "PM", "TXN", "RTX", "HON", "QCOM", "LOW", "UNP", "IBM",
	"CAT", "GS", "MS", "AMGN", "SPGI", "INTC", "VZ", "T", "BMY", "DE",
	"PLD", "ADI", "ISRG", "GILD", "REGN", "CMCSA", "ADP", "TJX", "NOC", "MDLZ",
	"DUK", "SO", "CME", "SYK", "CI", "ZTS", "ITW", "BDX", "EOG", "KLAC",
	"CSCO", "USB", "PGR", "AON", "TGT", "SCHW", "AXP", "MMC", "BLK", "MO",
	"GE", "SLB", "ETN", "FIS", "VRTX", "APD", "HUM", "ICE", "PSA", "ORCL",
	"LMT", "TFC", "AIG", "COF", "GM", "D", "SRE", "MPC", "AEP", "FDX",
}
