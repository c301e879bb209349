package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 토큰 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // 재고 변경 권한 없음

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 상품/옵션 (PRODUCT_, VARIANT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND" // 상품 없음
	VariantNotFound = "VARIANT_NOT_FOUND" // 옵션 없음
	VariantInvalid  = "VARIANT_INVALID"   // 사이즈/색상 누락

	// ==================== 재고 (STOCK_) ====================
	StockInvalid      = "STOCK_INVALID"      // 음수 재고
	StockUnavailable  = "STOCK_UNAVAILABLE"  // 재고 조회 실패
	StockInsufficient = "STOCK_INSUFFICIENT" // 재고 부족

	// ==================== 구매 계획 (PLAN_) ====================
	PlanCombinationUnavailable = "PLAN_COMBINATION_UNAVAILABLE" // 없는 조합
	PlanSelectionIncomplete    = "PLAN_SELECTION_INCOMPLETE"    // 사이즈/색상 미선택
	PlanInvalidAction          = "PLAN_INVALID_ACTION"          // 알 수 없는 동작
	PlanCartUnavailable        = "PLAN_CART_UNAVAILABLE"        // 장바구니 전달 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalFeedError     = "INTERNAL_FEED_ERROR"     // 재고 피드 오류
)
