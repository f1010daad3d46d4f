package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Статусы участника канала, при которых подписка считается оформленной
const (
	MemberStatusMember        = "member"
	MemberStatusAdministrator = "administrator"
	MemberStatusCreator       = "creator"
)

// Channel канал, на который нужно подписаться перед поиском
type Channel struct {
	Name     string // Название для пользователя
	ChatID   int64  // ID канала, если задан числом
	Username string // @username канала
	Link     string // Ссылка для кнопки "Подписаться"
}

// IsSubscribed сообщает, что статус означает подписку
func IsSubscribed(status string) bool {
	switch status {
	case MemberStatusMember, MemberStatusAdministrator, MemberStatusCreator:
		return true
	}
	return false
}

// ParseChannel разбирает описание канала: "@name" или "-100123|https://t.me/+invite"
func ParseChannel(raw string) (Channel, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Channel{}, fmt.Errorf("empty channel")
	}

	if strings.HasPrefix(raw, "@") {
		name := strings.TrimPrefix(raw, "@")
		if name == "" {
			return Channel{}, fmt.Errorf("channel %q: empty username", raw)
		}
		return Channel{
			Name:     raw,
			Username: raw,
			Link:     "https://t.me/" + name,
		}, nil
	}

	idPart, link, _ := strings.Cut(raw, "|")
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return Channel{}, fmt.Errorf("channel %q: %w", raw, err)
	}
	link = strings.TrimSpace(link)
	name := link
	if name == "" {
		name = idPart
	}
	return Channel{Name: name, ChatID: id, Link: link}, nil
}

// ParseChannels разбирает список каналов через запятую
func ParseChannels(raw string) ([]Channel, error) {
	var channels []Channel
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ch, err := ParseChannel(part)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
