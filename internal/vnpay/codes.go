package vnpay

// ResponseCodeSuccess is the single approved response code; every other
// code is a failure.
const ResponseCodeSuccess = "00"

var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường)",
	"09": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng chưa đăng ký dịch vụ InternetBanking tại ngân hàng",
	"10": "Giao dịch không thành công do: Khách hàng xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Giao dịch không thành công do: Đã hết hạn chờ thanh toán. Xin quý khách vui lòng thực hiện lại giao dịch",
	"12": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng bị khóa",
	"13": "Giao dịch không thành công do: Quý khách nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Giao dịch không thành công do: Khách hàng hủy giao dịch",
	"51": "Giao dịch không thành công do: Tài khoản của quý khách không đủ số dư để thực hiện giao dịch",
	"65": "Giao dịch không thành công do: Tài khoản của Quý khách đã vượt quá giới hạn giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Giao dịch không thành công do: KH nhập sai mật khẩu thanh toán quá số lần quy định",
	"99": "Các lỗi khác (lỗi còn lại, không có trong danh sách mã lỗi đã liệt kê)",
}

// IsSuccess reports whether a gateway response code means the payment
// was approved.
func IsSuccess(responseCode string) bool {
	return responseCode == ResponseCodeSuccess
}

// ResponseMessage translates a gateway response code to a human-readable
// reason, with a fallback for unmapped codes.
func ResponseMessage(responseCode string) string {
	if msg, ok := responseMessages[responseCode]; ok {
		return msg
	}
	return "Lỗi không xác định"
}

type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// SupportedBanks lists the banks/channels selectable on the hosted page.
func SupportedBanks() []Bank {
	return []Bank{
		{Code: "", Name: "Cổng thanh toán VNPAYQR", Logo: "vnpayqr"},
		{Code: "VNPAYQR", Name: "Ứng dụng hỗ trợ VNPAYQR", Logo: "vnpayqr"},
		{Code: "VNBANK", Name: "Thẻ ATM/Tài khoản nội địa", Logo: "vnbank"},
		{Code: "INTCARD", Name: "Thẻ thanh toán quốc tế", Logo: "intcard"},
		{Code: "VIETCOMBANK", Name: "Vietcombank", Logo: "vcb"},
		{Code: "VIETINBANK", Name: "Vietinbank", Logo: "vtb"},
		{Code: "BIDV", Name: "BIDV", Logo: "bidv"},
		{Code: "AGRIBANK", Name: "Agribank", Logo: "agribank"},
		{Code: "SACOMBANK", Name: "Sacombank", Logo: "sacombank"},
		{Code: "TECHCOMBANK", Name: "Techcombank", Logo: "techcombank"},
		{Code: "ACB", Name: "ACB", Logo: "acb"},
		{Code: "VPBANK", Name: "VPBank", Logo: "vpbank"},
		{Code: "TPBANK", Name: "TPBank", Logo: "tpbank"},
		{Code: "MBBANK", Name: "MBBank", Logo: "mbbank"},
		{Code: "SCB", Name: "SCB", Logo: "scb"},
	}
}
