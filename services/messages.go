package services

import (
	"mystery-tiles/utils"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The key is the English text; other languages are registered
// in the default catalog below.
const (
	MsgLoginRequired       = "This feature requires login. Please sign in and try again!"
	MsgInvalidToken        = "Invalid token"
	MsgEmailNotVerified    = "Email not verified"
	MsgEmailNotAllowed     = "Email not allowed"
	MsgAuthError           = "Authentication error"
	MsgUserNotFound        = "User not found"
	MsgTileNotFound        = "Strange, we could not find the tile you want to open. Is something off?"
	MsgTileAlreadyOpened   = "This tile was already opened by %s"
	MsgInsufficientStamina = "Not enough stamina to open this tile. Only %d left. You recover %d every %d minute(s), up to %d."
	MsgNoActiveAttempt     = "We have no record of a question for you. You may have been disconnected midway; try another tile."
	MsgLate                = "You were a little slower than %[1]s. This tile was opened by %[1]s first."
	MsgNoQuizzes           = "There are no questions available right now. Please try again later."
	MsgGenericFailure      = "Something went wrong on our side. Please try logging in again."
	MsgWelcome             = "Welcome to the mystery game. Let's uncover the mysteries together!"
	MsgPlayerOpenedTile    = "%s just opened another tile"
	MsgAnotherPlayer       = "another player"
)

var congratulations = []string{
	"What an extraordinary brain! You cracked the mystery brilliantly!",
	"You are quick as lightning! You solved it in the blink of an eye!",
	"Your persistence paid off! You cracked the mystery after all that effort!",
	"You are smarter than Sherlock Holmes! This mystery never stood a chance!",
	"You cracked this one as easily as snapping a gummy candy!",
	"Congratulations on solving the mystery! Now you can sleep soundly!",
}

var wrongAnswers = []string{
	"Your answer is so creative it made me laugh! Unfortunately it is not quite right.",
	"Your imagination is as vast as the universe! Sadly the answer is not correct.",
	"Don't worry, you still have a chance to fix it! Try again with the next question!",
	"This mystery can stump even the brightest minds. Don't give up yet!",
	"Everyone makes mistakes. Keep trying and you will find the answer!",
	"Every wrong answer is a lesson. Learn from it and you will improve quickly!",
}

var vietnamese = map[string]string{
	MsgLoginRequired:       "Feature này đòi hỏi login, vui lòng đăng nhập trước và thử lại!",
	MsgInvalidToken:        "Token không hợp lệ",
	MsgEmailNotVerified:    "Email chưa được xác thực",
	MsgEmailNotAllowed:     "Email không được phép tham gia",
	MsgAuthError:           "Lỗi xác thực",
	MsgUserNotFound:        "Không tìm thấy người chơi",
	MsgTileNotFound:        "Kì lạ, sao chúng tôi không tìm thấy ô mà bạn đang muốn mở nhỉ. Có sai ở đâu không?",
	MsgTileAlreadyOpened:   "Ô này đã được mở bởi %s",
	MsgInsufficientStamina: "Bạn không đủ thể lực để mở ô này. Chỉ còn %d thể lực. Bạn sẽ phục hồi %d thể lực mỗi %d phút. Tối đa %d.",
	MsgNoActiveAttempt:     "Hệ thống không ghi nhận yêu cầu trả lời câu hỏi này của bạn trước đó. Có lẽ bạn đã bị ngắt kết nối giữa chừng, hãy thử lại với một ô khác.",
	MsgLate:                "Bạn chậm chân hơn %[1]s một chút rồi, ô này đã được %[1]s mở trước.",
	MsgNoQuizzes:           "Hiện chưa có câu hỏi nào, hãy quay lại sau nhé.",
	MsgGenericFailure:      "Có gì đó sai ở phía chúng tôi, hãy thử login lại nhé.",
	MsgWelcome:             "Chào mừng bạn đến với trò chơi giải mã bí ẩn. Hãy cùng nhau khám phá những bí ẩn thú vị nhé!",
	MsgPlayerOpenedTile:    "%s vừa mở được thêm 1 ô",
	MsgAnotherPlayer:       "người chơi khác",

	congratulations[0]: "Thật là một bộ não phi thường! Bạn đã giải mã bí ẩn một cách xuất sắc!",
	congratulations[1]: "Tốc độ của bạn nhanh như chớp! Bạn đã giải mã bí ẩn trong chớp mắt!",
	congratulations[2]: "Sự kiên trì của bạn đã được đền đáp xứng đáng! Bạn đã giải mã bí ẩn sau bao nỗ lực!",
	congratulations[3]: "Bạn thông minh hơn cả Sherlock Holmes! Bí ẩn này không thể làm khó bạn!",
	congratulations[4]: "Bạn đã bẻ khóa bí ẩn này một cách dễ dàng! Giống như bẻ kẹo dẻo vậy!",
	congratulations[5]: "Chúc mừng bạn đã giải mã bí ẩn! Giờ bạn có thể ngủ ngon giấc mà không lo lắng nữa!",

	wrongAnswers[0]: "Câu trả lời của bạn sáng tạo đến mức khiến tôi phải bật cười! Tuy nhiên, nó không hoàn toàn chính xác.",
	wrongAnswers[1]: "Trí tưởng tượng của bạn phong phú như vũ trụ vậy! Nhưng tiếc rằng câu trả lời của bạn chưa đúng.",
	wrongAnswers[2]: "Đừng lo lắng, bạn vẫn còn cơ hội để sửa sai! Hãy thử lại với câu hỏi tiếp theo nhé!",
	wrongAnswers[3]: "Bí ẩn này có thể đánh đố cả những bộ não thông minh nhất. Đừng nản lòng nếu bạn chưa tìm ra đáp án!",
	wrongAnswers[4]: "Đừng lo lắng, ai cũng có thể mắc sai lầm. Hãy tiếp tục cố gắng và bạn sẽ tìm ra đáp án!",
	wrongAnswers[5]: "Mỗi câu trả lời sai đều là một bài học quý giá. Hãy học hỏi từ nó và bạn sẽ tiến bộ nhanh chóng!",
}

func init() {
	for key, msg := range vietnamese {
		if err := message.SetString(language.Vietnamese, key, msg); err != nil {
			panic(err)
		}
	}
}

// Messages renders user-facing text in the configured locale.
type Messages struct {
	printer *message.Printer
}

// NewMessages falls back to Vietnamese when locale does not parse.
func NewMessages(locale string) *Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Vietnamese
	}
	return &Messages{printer: message.NewPrinter(tag)}
}

func (m *Messages) Sprintf(key string, args ...any) string {
	return m.printer.Sprintf(key, args...)
}

func (m *Messages) Congratulation() string {
	return m.printer.Sprintf(utils.Pick(congratulations))
}

func (m *Messages) WrongAnswer() string {
	return m.printer.Sprintf(utils.Pick(wrongAnswers))
}
