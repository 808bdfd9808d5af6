package status

type Code uint16

// Codes the server itself produces. Applications may pass any other integer in the
// 100-599 range to the response builder.
const (
	SwitchingProtocols Code = 101

	OK        Code = 200
	NoContent Code = 204

	BadRequest            Code = 400
	NotFound              Code = 404
	MethodNotAllowed      Code = 405
	LengthRequired        Code = 411
	RequestEntityTooLarge Code = 413
	UpgradeRequired       Code = 426

	InternalServerError Code = 500
	NotImplemented      Code = 501
)

// Text returns the reason phrase for the code. The result always fits the response
// status detail limit.
func Text(code Code) string {
	switch code {
	case SwitchingProtocols:
		return "Switching Protocols"
	case OK:
		return "OK"
	case NoContent:
		return "No Content"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case UpgradeRequired:
		return "Upgrade Required"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	default:
		return "Unknown Status Code"
	}
}
