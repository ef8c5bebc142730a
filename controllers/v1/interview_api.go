package apiv1

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"interview-coach-backend/controllers"
	interviewhandler "interview-coach-backend/lib/interview"
	"interview-coach-backend/middleware"
	apimodels "interview-coach-backend/models/api"
	interviewapimodels "interview-coach-backend/models/api/interview"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type interviewApiController struct {
	controllers.BaseAPIController
	interview interviewhandler.Provider
}

func InitInterviewApiRouters(app fiber.Router, interview interviewhandler.Provider) {
	controller := interviewApiController{interview: interview}
	app.Route("interview", func(router fiber.Router) {
		router.Get("categories", controller.categories)
		router.Post("setup", controller.setup)
		router.Get("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("audio", controller.audio)
			idRoute.Get("report", controller.report)
			idRoute.Get("report/pdf", controller.reportPDF)
			idRoute.Get("records/xlsx", controller.recordsXLSX)
		})
	})
}

// @Summary Категории должностей
// @Tags Собеседование
// @Description Список категорий должностей для генерации вопросов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Categories}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/interview/categories [get]
func (c *interviewApiController) categories(ctx *fiber.Ctx) error {
	resp := interviewapimodels.Categories{Categories: c.interview.Categories()}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание сессии собеседования
// @Tags Собеседование
// @Description Генерирует вопросы по должности и создает сессию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		interviewapimodels.SetupRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SetupResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/setup [post]
func (c *interviewApiController) setup(ctx *fiber.Ctx) error {
	var payload interviewapimodels.SetupRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	userID := middleware.GetUserID(ctx)
	resp, err := c.interview.Setup(ctx.UserContext(), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сессии собеседования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список сессий
// @Tags Собеседование
// @Description Сессии текущего пользователя, новые первыми
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	page				query		int		false	"страница"
// @Param	limit				query		int		false	"записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]interviewapimodels.Session}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/list [get]
func (c *interviewApiController) list(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := ctx.QueryParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректные параметры страницы"))
	}
	page, limit := payload.GetPage()
	list, rowCount, err := c.interview.GetList(middleware.GetUserID(ctx), page, limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сессий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение сессии по ИД
// @Tags Собеседование
// @Description Получение сессии по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "session ID"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Session}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id} [get]
func (c *interviewApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.interview.GetSession(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сессии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Анализ ответа
// @Tags Собеседование
// @Description Распознает речь и эмоцию в ответе на вопрос и сохраняет запись
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "session ID"
// @Param	audio_file			formData	file	true	"аудио ответа (wav или PCM16 mono)"
// @Param	question			formData	string	true	"текст вопроса"
// @Param	question_index		formData	int		true	"номер вопроса"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.AudioResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/audio [post]
func (c *interviewApiController) audio(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	file, err := ctx.FormFile("audio_file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл audio_file"))
	}
	questionIndex, err := strconv.Atoi(ctx.FormValue("question_index"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректный номер вопроса"))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("Ошибка при получении аудиофайла")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("Ошибка при загрузке аудиофайла")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	payload := interviewapimodels.AudioRequest{
		Question:      ctx.FormValue("question"),
		QuestionIndex: questionIndex,
		ContentType:   file.Header.Get(fiber.HeaderContentType),
		Data:          fileBody,
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.interview.AnalyzeAudio(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка анализа ответа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Итоговый отчет
// @Tags Собеседование
// @Description Агрегаты по голосу и видео и обратная связь от LLM. Части, которые не удалось получить, перечислены в errors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "session ID"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Report}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/report [get]
func (c *interviewApiController) report(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.interview.Report(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования отчета")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Итоговый отчет в PDF
// @Tags Собеседование
// @Description Итоговый отчет в PDF
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "session ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/report/pdf [get]
func (c *interviewApiController) reportPDF(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := c.interview.ReportPDF(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования отчета в PDF")
	}
	fileName := fmt.Sprintf("interview-report-%v.pdf", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Send(data)
}

// @Summary Записи анализа в Excel
// @Tags Собеседование
// @Description Все записи анализа голоса и видео сессии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "session ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/records/xlsx [get]
func (c *interviewApiController) recordsXLSX(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := c.interview.RecordsXLSX(middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки записей в Excel")
	}
	fileName := fmt.Sprintf("interview-records-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
